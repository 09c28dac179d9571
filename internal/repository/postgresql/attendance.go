package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.user_id, a.squad_id, a.sprint_id, a.date, a.check_in_time,
	a.check_out_time, a.total_hours, a.compliance_status, a.compliance_notes,
	a.late_minutes, a.early_checkout_minutes, a.location, a.work_mode,
	a.notes, a.verified, a.created_at, a.updated_at,
	u.name AS user_name, s.name AS squad_name
`

const attendanceFrom = `
	FROM attendance_logs a
	JOIN users u ON u.id = a.user_id
	LEFT JOIN squads s ON s.id = a.squad_id
`

func scanAttendance(row pgx.Row) (attendance.AttendanceLog, error) {
	var a attendance.AttendanceLog
	err := row.Scan(
		&a.ID, &a.UserID, &a.SquadID, &a.SprintID, &a.Date, &a.CheckInTime,
		&a.CheckOutTime, &a.TotalHours, &a.ComplianceStatus, &a.ComplianceNotes,
		&a.LateMinutes, &a.EarlyCheckoutMinutes, &a.Location, &a.WorkMode,
		&a.Notes, &a.Verified, &a.CreatedAt, &a.UpdatedAt,
		&a.UserName, &a.SquadName,
	)
	return a, err
}

func (r *attendanceRepository) Create(ctx context.Context, log attendance.AttendanceLog) (attendance.AttendanceLog, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now

	query := `
		INSERT INTO attendance_logs (
			id, user_id, squad_id, sprint_id, date, check_in_time, check_out_time,
			total_hours, compliance_status, compliance_notes, late_minutes,
			early_checkout_minutes, location, work_mode, notes, verified,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := q.Exec(ctx, query,
		log.ID, log.UserID, log.SquadID, log.SprintID, log.Date,
		log.CheckInTime, log.CheckOutTime, log.TotalHours,
		string(log.ComplianceStatus), log.ComplianceNotes,
		log.LateMinutes, log.EarlyCheckoutMinutes,
		log.Location, string(log.WorkMode), log.Notes, log.Verified,
		log.CreatedAt, log.UpdatedAt,
	)
	if err != nil {
		return attendance.AttendanceLog{}, fmt.Errorf("failed to create attendance log: %w", err)
	}
	return log, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + ` WHERE a.id = $1`
	log, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceLog{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceLog{}, fmt.Errorf("failed to get attendance log: %w", err)
	}
	return log, nil
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.AttendanceLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + ` WHERE a.user_id = $1 AND a.date = $2`
	log, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceLog{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceLog{}, fmt.Errorf("failed to get attendance log by user and date: %w", err)
	}
	return log, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceLog, int, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.UserID != "" {
		addCondition("a.user_id = $%d", filter.UserID)
	}
	if filter.SquadID != "" {
		addCondition("a.squad_id = $%d", filter.SquadID)
	}
	if filter.SprintID != "" {
		addCondition("a.sprint_id = $%d", filter.SprintID)
	}
	if filter.ComplianceStatus != "" {
		addCondition("a.compliance_status = $%d", filter.ComplianceStatus)
	}
	if filter.DateFrom != nil {
		addCondition("a.date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCondition("a.date <= $%d", *filter.DateTo)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*)` + attendanceFrom + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance logs: %w", err)
	}

	query := `SELECT ` + attendanceColumns + attendanceFrom + where +
		fmt.Sprintf(` ORDER BY a.date DESC, a.created_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, filter.PerPage, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance logs: %w", err)
	}
	defer rows.Close()

	logs, err := collectAttendance(rows)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *attendanceRepository) ListForRange(ctx context.Context, from, to time.Time, squadID string) ([]attendance.AttendanceLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + ` WHERE a.date >= $1 AND a.date <= $2`
	args := []interface{}{from, to}
	if squadID != "" {
		query += ` AND a.squad_id = $3`
		args = append(args, squadID)
	}
	query += ` ORDER BY a.date, u.name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance logs for range: %w", err)
	}
	defer rows.Close()

	return collectAttendance(rows)
}

func (r *attendanceRepository) GetOpenForDate(ctx context.Context, date time.Time) ([]attendance.AttendanceLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + `
		WHERE a.date = $1 AND a.check_in_time IS NOT NULL AND a.check_out_time IS NULL`
	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendance logs: %w", err)
	}
	defer rows.Close()

	return collectAttendance(rows)
}

func collectAttendance(rows pgx.Rows) ([]attendance.AttendanceLog, error) {
	var logs []attendance.AttendanceLog
	for rows.Next() {
		log, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *attendanceRepository) Update(ctx context.Context, log attendance.AttendanceLog) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_logs
		SET check_in_time = $2, check_out_time = $3, total_hours = $4,
		    compliance_status = $5, compliance_notes = $6, late_minutes = $7,
		    early_checkout_minutes = $8, location = $9, work_mode = $10,
		    notes = $11, verified = $12, updated_at = $13
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		log.ID, log.CheckInTime, log.CheckOutTime, log.TotalHours,
		string(log.ComplianceStatus), log.ComplianceNotes,
		log.LateMinutes, log.EarlyCheckoutMinutes,
		log.Location, string(log.WorkMode), log.Notes, log.Verified,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
