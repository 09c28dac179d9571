package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/report"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

const reportColumns = `id, name, squad_id, schedule, format, recipients,
	filter_users, filter_statuses, enabled, status, metrics, generated_at,
	last_run_at, next_run_at, created_by, created_at, updated_at`

func scanReport(row pgx.Row) (report.Report, error) {
	var rep report.Report
	var metricsRaw []byte
	err := row.Scan(
		&rep.ID, &rep.Name, &rep.SquadID, &rep.Schedule, &rep.Format,
		&rep.Recipients, &rep.FilterUsers, &rep.FilterStatuses, &rep.Enabled,
		&rep.Status, &metricsRaw, &rep.GeneratedAt, &rep.LastRunAt,
		&rep.NextRunAt, &rep.CreatedBy, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		return rep, err
	}
	if len(metricsRaw) > 0 {
		var m report.Metrics
		if err := json.Unmarshal(metricsRaw, &m); err != nil {
			return rep, fmt.Errorf("failed to decode report metrics: %w", err)
		}
		rep.Metrics = &m
	}
	return rep, nil
}

func encodeMetrics(m *report.Metrics) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (r *reportRepository) Create(ctx context.Context, rep report.Report) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now().UTC()
	rep.CreatedAt = now
	rep.UpdatedAt = now

	metricsRaw, err := encodeMetrics(rep.Metrics)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to encode report metrics: %w", err)
	}

	query := `
		INSERT INTO reports (
			id, name, squad_id, schedule, format, recipients,
			filter_users, filter_statuses, enabled, status, metrics, generated_at,
			last_run_at, next_run_at, created_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err = q.Exec(ctx, query,
		rep.ID, rep.Name, rep.SquadID, string(rep.Schedule), string(rep.Format),
		rep.Recipients, rep.FilterUsers, rep.FilterStatuses, rep.Enabled,
		string(rep.Status), metricsRaw, rep.GeneratedAt, rep.LastRunAt,
		rep.NextRunAt, rep.CreatedBy, rep.CreatedAt, rep.UpdatedAt,
	)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to create report: %w", err)
	}
	return rep, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	rep, err := scanReport(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.Report{}, report.ErrReportNotFound
		}
		return report.Report{}, fmt.Errorf("failed to get report: %w", err)
	}
	return rep, nil
}

func (r *reportRepository) GetAll(ctx context.Context) ([]report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY name`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

func (r *reportRepository) GetDue(ctx context.Context, now time.Time) ([]report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reportColumns + ` FROM reports
		WHERE enabled = TRUE AND status <> 'archived' AND next_run_at <= $1`
	rows, err := q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reports: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

func collectReports(rows pgx.Rows) ([]report.Report, error) {
	var reports []report.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *reportRepository) Update(ctx context.Context, rep report.Report) error {
	q := GetQuerier(ctx, r.db)

	metricsRaw, err := encodeMetrics(rep.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode report metrics: %w", err)
	}

	query := `
		UPDATE reports
		SET name = $2, squad_id = $3, schedule = $4, format = $5, recipients = $6,
		    filter_users = $7, filter_statuses = $8, enabled = $9, status = $10,
		    metrics = $11, generated_at = $12, last_run_at = $13, next_run_at = $14,
		    updated_at = $15
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		rep.ID, rep.Name, rep.SquadID, string(rep.Schedule), string(rep.Format),
		rep.Recipients, rep.FilterUsers, rep.FilterStatuses, rep.Enabled,
		string(rep.Status), metricsRaw, rep.GeneratedAt, rep.LastRunAt,
		rep.NextRunAt, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return report.ErrReportNotFound
	}
	return nil
}
