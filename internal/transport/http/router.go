package http

import (
	"net/http"

	"go.uber.org/zap"
)

// NewRouter wires every route of the form front-end onto one handler,
// wrapped in CORS and request logging.
func NewRouter(listings ListingManager, purchaser Purchaser, reports Reporter, allowedOrigins []string, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", HealthHandler)
	mux.Handle("/listings", HandleListings(listings))
	mux.Handle("/listings/", HandleListingByID(listings, purchaser))
	mux.Handle("/reports/avg-price", HandleAvgPrice(reports))
	mux.Handle("/export", HandleExportCSV(reports))
	mux.Handle("/admin/indexes", HandleEnsureIndexes(listings))
	mux.Handle("/", NotFoundHandler())

	return RequestLogger(CORS(allowedOrigins, mux), logger)
}
