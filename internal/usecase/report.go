package usecase

import (
	"context"
	"fmt"
	"time"
)

// SalesPerDayRow is one aggregated reporting row.
type SalesPerDayRow struct {
	Date  string `json:"date" db:"sale_date"`
	Total string `json:"total" db:"total"`
}

type ReportRepo interface {
	SalesPerDay(ctx context.Context, from, to *time.Time) ([]SalesPerDayRow, error)
}

// ReportExporter writes rows to a file and returns its path relative to the
// reports directory.
type ReportExporter interface {
	Export(rows []SalesPerDayRow, format, baseName string) (string, error)
}

type ReportService struct {
	repo     ReportRepo
	exporter ReportExporter
}

func NewReportService(repo ReportRepo, exporter ReportExporter) *ReportService {
	return &ReportService{repo: repo, exporter: exporter}
}

func (svc *ReportService) SalesPerDay(ctx context.Context, from, to *time.Time) ([]SalesPerDayRow, error) {
	return svc.repo.SalesPerDay(ctx, from, to)
}

// ExportSales writes the sales-per-day report as CSV or JSON and returns the
// relative file path.
func (svc *ReportService) ExportSales(ctx context.Context, format string, from, to *time.Time) (string, error) {
	rows, err := svc.repo.SalesPerDay(ctx, from, to)
	if err != nil {
		return "", fmt.Errorf("aggregate sales: %w", err)
	}
	return svc.exporter.Export(rows, format, "sales_per_day")
}
