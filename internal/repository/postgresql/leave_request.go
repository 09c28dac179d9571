package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/leave"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

// NewLeaveRepository creates a new leave request repository
func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

const leaveColumns = `
	l.id, l.user_id, l.squad_id, l.type, l.start_date, l.end_date, l.reason,
	l.status, l.squad_lead_approver_id, l.squad_lead_action_at,
	l.squad_lead_comment, l.admin_approver_id, l.admin_action_at,
	l.admin_comment, l.created_at, l.updated_at,
	u.name AS user_name, s.name AS squad_name
`

const leaveFrom = `
	FROM leave_requests l
	JOIN users u ON u.id = l.user_id
	LEFT JOIN squads s ON s.id = l.squad_id
`

func scanLeave(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.UserID, &lr.SquadID, &lr.Type, &lr.StartDate, &lr.EndDate, &lr.Reason,
		&lr.Status, &lr.SquadLeadApproverID, &lr.SquadLeadActionAt,
		&lr.SquadLeadComment, &lr.AdminApproverID, &lr.AdminActionAt,
		&lr.AdminComment, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.UserName, &lr.SquadName,
	)
	return lr, err
}

func (r *leaveRepository) Create(ctx context.Context, lr leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	now := time.Now().UTC()
	lr.CreatedAt = now
	lr.UpdatedAt = now

	query := `
		INSERT INTO leave_requests (
			id, user_id, squad_id, type, start_date, end_date, reason, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := q.Exec(ctx, query,
		lr.ID, lr.UserID, lr.SquadID, string(lr.Type), lr.StartDate, lr.EndDate,
		lr.Reason, string(lr.Status), lr.CreatedAt, lr.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return lr, nil
}

func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + leaveFrom + ` WHERE l.id = $1`
	lr, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

func (r *leaveRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("l.user_id = $%d", argPos))
		args = append(args, filter.UserID)
		argPos++
	}
	if filter.SquadID != "" {
		conditions = append(conditions, fmt.Sprintf("l.squad_id = $%d", argPos))
		args = append(args, filter.SquadID)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*)` + leaveFrom + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := `SELECT ` + leaveColumns + leaveFrom + where +
		fmt.Sprintf(` ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, filter.PerPage, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeave(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	return requests, total, rows.Err()
}

func (r *leaveRepository) GetOverlapping(ctx context.Context, userID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + leaveFrom + `
		WHERE l.user_id = $1
		  AND l.status NOT IN ('rejected-squad-lead', 'rejected-admin')
		  AND l.start_date <= $3 AND l.end_date >= $2`
	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

func (r *leaveRepository) Update(ctx context.Context, lr leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, squad_lead_approver_id = $3, squad_lead_action_at = $4,
		    squad_lead_comment = $5, admin_approver_id = $6, admin_action_at = $7,
		    admin_comment = $8, updated_at = $9
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		lr.ID, string(lr.Status),
		lr.SquadLeadApproverID, lr.SquadLeadActionAt, lr.SquadLeadComment,
		lr.AdminApproverID, lr.AdminActionAt, lr.AdminComment,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

func (r *leaveRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}
