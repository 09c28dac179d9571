package report

import (
	"context"
	"time"
)

// ReportRepository defines data access methods for report definitions.
type ReportRepository interface {
	Create(ctx context.Context, r Report) (Report, error)
	GetByID(ctx context.Context, id string) (Report, error)
	GetAll(ctx context.Context) ([]Report, error)

	// GetDue retrieves enabled, non-archived reports whose NextRunAt
	// is at or before the given instant.
	GetDue(ctx context.Context, now time.Time) ([]Report, error)

	Update(ctx context.Context, r Report) error
	Delete(ctx context.Context, id string) error
}

// ReportService defines business logic for report generation,
// scheduling and attendance export.
type ReportService interface {
	Create(ctx context.Context, req CreateReportRequest) (Report, error)
	GetAll(ctx context.Context) ([]Report, error)
	GetByID(ctx context.Context, id string) (Report, error)
	Update(ctx context.Context, req UpdateReportRequest) (Report, error)
	Delete(ctx context.Context, id string) error

	// Generate computes metrics for a report definition on demand.
	Generate(ctx context.Context, id string) (Metrics, error)

	// Export renders attendance data for the period as CSV bytes or
	// JSON bytes, returning the payload with its content type.
	Export(ctx context.Context, req ExportRequest) ([]byte, string, error)

	// RunScheduled generates and delivers every due report. Failures
	// are isolated per report.
	RunScheduled(ctx context.Context) error
}
