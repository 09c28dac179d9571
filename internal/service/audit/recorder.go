package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domain "github.com/rylimitless/asamp-backend-go/internal/domain/audit"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
)

// Recorder observes committed mutations and appends audit entries.
// Auditing must never fail a request, so every persistence error is
// logged and swallowed.
type Recorder struct {
	repo   domain.AuditRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewRecorder(repo domain.AuditRepository, logger *slog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (r *Recorder) Name() string { return "audit-recorder" }

func (r *Recorder) Handle(ctx context.Context, ev hooks.Event) error {
	entry := r.buildEntry(ev)
	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Error("audit entry not persisted",
			slog.String("entity_type", ev.EntityType),
			slog.String("entity_id", ev.EntityID),
			slog.Any("error", err),
		)
	}
	return nil
}

func (r *Recorder) buildEntry(ev hooks.Event) domain.Entry {
	createdAt := r.now().UTC()
	entry := domain.Entry{
		ID:                 uuid.NewString(),
		ActorID:            ev.ActorID,
		Action:             domain.Action(ev.Action),
		EntityType:         ev.EntityType,
		EntityID:           ev.EntityID,
		ChangedFields:      diffObjects(ev.Before, ev.After),
		Severity:           severityFor(ev.EntityType, domain.Action(ev.Action)),
		Category:           categoryFor(ev.EntityType),
		ComplianceRelevant: complianceRelevant(ev.EntityType, domain.Action(ev.Action)),
		CreatedAt:          createdAt,
	}
	entry.Checksum = checksum(entry)
	return entry
}

func severityFor(entityType string, action domain.Action) domain.Severity {
	if action == domain.ActionDelete {
		switch entityType {
		case "users", "audit_logs":
			return domain.SeverityCritical
		}
		return domain.SeverityHigh
	}
	if action == domain.ActionUpdate {
		switch entityType {
		case "users", "attendance_logs":
			return domain.SeverityHigh
		}
	}
	switch entityType {
	case "squads", "sprints", "leave_requests":
		return domain.SeverityMedium
	}
	return domain.SeverityLow
}

func categoryFor(entityType string) domain.Category {
	switch entityType {
	case "users":
		return domain.CategoryUserManagement
	case "attendance_logs":
		return domain.CategoryAttendance
	case "leave_requests":
		return domain.CategoryLeave
	case "squads", "sprints":
		return domain.CategorySquad
	case "reports":
		return domain.CategoryReporting
	case "audit_logs", "sessions":
		return domain.CategorySecurity
	}
	return domain.CategorySystem
}

// complianceRelevant marks entries auditors must be able to produce:
// anything touching the audited collections, plus every update or
// delete regardless of collection.
func complianceRelevant(entityType string, action domain.Action) bool {
	switch entityType {
	case "attendance_logs", "leave_requests", "users", "audit_logs":
		return true
	}
	return action == domain.ActionUpdate || action == domain.ActionDelete
}

// checksum covers the changed fields as well as the identifying
// columns, so editing a stored diff invalidates the hash.
func checksum(e domain.Entry) string {
	actor := ""
	if e.ActorID != nil {
		actor = *e.ActorID
	}
	changes, err := json.Marshal(e.ChangedFields)
	if err != nil {
		changes = nil
	}
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%s|%s|%s|%s",
		e.ID, actor, e.Action, e.EntityType, e.EntityID,
		e.CreatedAt.Format(time.RFC3339Nano), changes,
	))
	return hex.EncodeToString(sum[:])
}
