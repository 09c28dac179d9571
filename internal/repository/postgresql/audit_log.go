package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/audit"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit log repository
func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, e audit.Entry) error {
	q := GetQuerier(ctx, r.db)

	changedJSON, err := json.Marshal(e.ChangedFields)
	if err != nil {
		return fmt.Errorf("failed to marshal changed fields: %w", err)
	}

	query := `
		INSERT INTO audit_logs (
			id, actor_id, action, entity_type, entity_id, changed_fields,
			severity, category, compliance_relevant, checksum, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = q.Exec(ctx, query,
		e.ID, e.ActorID, string(e.Action), e.EntityType, e.EntityID, changedJSON,
		string(e.Severity), string(e.Category), e.ComplianceRelevant, e.Checksum,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, filter audit.ListFilter) ([]audit.Entry, int, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.ActorID != "" {
		addCondition("actor_id = $%d", filter.ActorID)
	}
	if filter.EntityType != "" {
		addCondition("entity_type = $%d", filter.EntityType)
	}
	if filter.EntityID != "" {
		addCondition("entity_id = $%d", filter.EntityID)
	}
	if filter.Severity != "" {
		addCondition("severity = $%d", filter.Severity)
	}
	if filter.Category != "" {
		addCondition("category = $%d", filter.Category)
	}
	if filter.From != nil {
		addCondition("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		addCondition("created_at <= $%d", *filter.To)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	query := `
		SELECT id, actor_id, action, entity_type, entity_id, changed_fields,
		       severity, category, compliance_relevant, checksum, created_at
		FROM audit_logs` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, filter.PerPage, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		e, err := scanAuditEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func scanAuditEntry(row pgx.Row) (audit.Entry, error) {
	var e audit.Entry
	var changedJSON []byte
	err := row.Scan(
		&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &changedJSON,
		&e.Severity, &e.Category, &e.ComplianceRelevant, &e.Checksum, &e.CreatedAt,
	)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("failed to scan audit entry: %w", err)
	}
	if len(changedJSON) > 0 {
		if err := json.Unmarshal(changedJSON, &e.ChangedFields); err != nil {
			return audit.Entry{}, fmt.Errorf("failed to unmarshal changed fields: %w", err)
		}
	}
	return e, nil
}
