package http

import (
	"context"
	"io"
	"net/http"

	"github.com/mridulgandhi29/real-estate-tracker/internal/app"
)

// Reporter is the slice of the report service the report routes use.
type Reporter interface {
	AvgPriceByCity(ctx context.Context) ([]app.CityAverage, error)
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
}

// HandleAvgPrice serves GET /reports/avg-price.
func HandleAvgPrice(svc Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		rows, err := svc.AvgPriceByCity(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		if rows == nil {
			rows = []app.CityAverage{}
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// HandleExportCSV serves GET /export as a CSV download.
func HandleExportCSV(svc Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="properties_export.csv"`)
		if _, err := svc.ExportCSV(r.Context(), w); err != nil {
			// Headers may already be out; all we can do is log upstream
			// and cut the stream short.
			return
		}
	}
}
