package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mridulgandhi29/real-estate-tracker/internal/domain"
)

// CityAverage is one row of the per-city price report.
type CityAverage struct {
	City     string  `json:"city"`
	AvgPrice float64 `json:"avg_price"`
	Count    int64   `json:"count"`
}

type ReportRepository interface {
	AvgPriceByCity(ctx context.Context) ([]CityAverage, error)
	All(ctx context.Context) ([]domain.Listing, error)
}

type ReportService struct {
	repo   ReportRepository
	logger *zap.Logger
}

func NewReportService(repo ReportRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, logger: logger}
}

func (s *ReportService) AvgPriceByCity(ctx context.Context) ([]CityAverage, error) {
	return s.repo.AvgPriceByCity(ctx)
}

var exportHeader = []string{"id", "title", "city", "price", "status", "created_at"}

// ExportCSV streams every listing to w as CSV and returns the number of
// data rows written.
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	listings, err := s.repo.All(ctx)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, l := range listings {
		row := []string{
			l.ID,
			l.Title,
			l.City,
			strconv.FormatInt(l.Price, 10),
			string(l.Status),
			l.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Info("listings exported", zap.Int("rows", len(listings)))
	return len(listings), nil
}
