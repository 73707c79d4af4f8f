package store

import (
	"context"
	"time"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// ReportStore defines the persistence interface for lint reports.
//
// GetReport returns sql.ErrNoRows when no report has the given id.
type ReportStore interface {
	SaveReport(ctx context.Context, report *model.Report) error
	GetReport(ctx context.Context, id string) (*model.Report, error)
	ListReports(ctx context.Context, filter model.ReportFilter) ([]*model.Report, int, error) // returns reports, total count, error
	DeleteReportsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// CodeStats counts diagnostics by code across all stored reports.
	CodeStats(ctx context.Context) (map[model.Code]int, error)

	// Lifecycle
	Close() error
}
