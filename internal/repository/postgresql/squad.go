package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/database"
)

type squadRepository struct {
	db *database.DB
}

// NewSquadRepository creates a new squad repository
func NewSquadRepository(db *database.DB) squad.SquadRepository {
	return &squadRepository{db: db}
}

const squadColumns = `
	s.id, s.name, s.description, s.lead_id, s.project, s.time_zone, s.workdays,
	s.active_sprint_id, s.minimum_work_hours, s.standard_check_in_time,
	s.standard_check_out_time, s.late_threshold_minutes,
	s.early_checkout_threshold_minutes, s.compliance_score,
	s.created_at, s.updated_at, u.name AS lead_name
`

const squadFrom = ` FROM squads s LEFT JOIN users u ON u.id = s.lead_id `

func scanSquad(row pgx.Row) (squad.Squad, error) {
	var s squad.Squad
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.LeadID, &s.Project, &s.TimeZone, &s.Workdays,
		&s.ActiveSprintID,
		&s.AttendanceRules.MinimumWorkHours,
		&s.AttendanceRules.StandardCheckInTime,
		&s.AttendanceRules.StandardCheckOutTime,
		&s.AttendanceRules.LateThresholdMinutes,
		&s.AttendanceRules.EarlyCheckoutThresholdMinutes,
		&s.ComplianceScore,
		&s.CreatedAt, &s.UpdatedAt, &s.LeadName,
	)
	return s, err
}

func (r *squadRepository) Create(ctx context.Context, s squad.Squad) (squad.Squad, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `
		INSERT INTO squads (
			id, name, description, lead_id, project, time_zone, workdays,
			active_sprint_id, minimum_work_hours, standard_check_in_time,
			standard_check_out_time, late_threshold_minutes,
			early_checkout_threshold_minutes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := q.Exec(ctx, query,
		s.ID, s.Name, s.Description, s.LeadID, s.Project, s.TimeZone, s.Workdays,
		s.ActiveSprintID,
		s.AttendanceRules.MinimumWorkHours,
		s.AttendanceRules.StandardCheckInTime,
		s.AttendanceRules.StandardCheckOutTime,
		s.AttendanceRules.LateThresholdMinutes,
		s.AttendanceRules.EarlyCheckoutThresholdMinutes,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("failed to create squad: %w", err)
	}
	return s, nil
}

func (r *squadRepository) GetByID(ctx context.Context, id string) (squad.Squad, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + squadColumns + squadFrom + ` WHERE s.id = $1`
	s, err := scanSquad(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return squad.Squad{}, squad.ErrSquadNotFound
		}
		return squad.Squad{}, fmt.Errorf("failed to get squad by id: %w", err)
	}
	return s, nil
}

func (r *squadRepository) GetByName(ctx context.Context, name string) (squad.Squad, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + squadColumns + squadFrom + ` WHERE s.name = $1`
	s, err := scanSquad(q.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return squad.Squad{}, squad.ErrSquadNotFound
		}
		return squad.Squad{}, fmt.Errorf("failed to get squad by name: %w", err)
	}
	return s, nil
}

func (r *squadRepository) GetAll(ctx context.Context) ([]squad.Squad, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + squadColumns + squadFrom + ` ORDER BY s.name`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list squads: %w", err)
	}
	defer rows.Close()

	var squads []squad.Squad
	for rows.Next() {
		s, err := scanSquad(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan squad: %w", err)
		}
		squads = append(squads, s)
	}
	return squads, rows.Err()
}

func (r *squadRepository) Update(ctx context.Context, s squad.Squad) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE squads
		SET name = $2, description = $3, lead_id = $4, project = $5,
		    time_zone = $6, workdays = $7, active_sprint_id = $8,
		    minimum_work_hours = $9, standard_check_in_time = $10,
		    standard_check_out_time = $11, late_threshold_minutes = $12,
		    early_checkout_threshold_minutes = $13, updated_at = $14
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		s.ID, s.Name, s.Description, s.LeadID, s.Project,
		s.TimeZone, s.Workdays, s.ActiveSprintID,
		s.AttendanceRules.MinimumWorkHours,
		s.AttendanceRules.StandardCheckInTime,
		s.AttendanceRules.StandardCheckOutTime,
		s.AttendanceRules.LateThresholdMinutes,
		s.AttendanceRules.EarlyCheckoutThresholdMinutes,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update squad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return squad.ErrSquadNotFound
	}
	return nil
}

func (r *squadRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM squads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete squad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return squad.ErrSquadNotFound
	}
	return nil
}

func (r *squadRepository) UpdateComplianceScore(ctx context.Context, id string, score float64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE squads SET compliance_score = $2, updated_at = $3 WHERE id = $1`,
		id, score, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update squad compliance score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return squad.ErrSquadNotFound
	}
	return nil
}
