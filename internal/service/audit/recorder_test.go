package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/rylimitless/asamp-backend-go/internal/domain/audit"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
)

type fakeAuditRepo struct {
	entries []domain.Entry
	err     error
}

func (f *fakeAuditRepo) Create(ctx context.Context, e domain.Entry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Entry, int, error) {
	return f.entries, len(f.entries), nil
}

func newTestRecorder(repo *fakeAuditRepo) *Recorder {
	return NewRecorder(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecorderPersistsEntry(t *testing.T) {
	repo := &fakeAuditRepo{}
	actor := "actor-1"

	err := newTestRecorder(repo).Handle(context.Background(), hooks.Event{
		Action:     hooks.ActionUpdate,
		EntityType: "attendance_logs",
		EntityID:   "log-1",
		ActorID:    &actor,
		Before:     map[string]any{"notes": "a", "verified": false},
		After:      map[string]any{"notes": "b", "verified": false},
	})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)

	entry := repo.entries[0]
	assert.Equal(t, domain.ActionUpdate, entry.Action)
	assert.Equal(t, domain.SeverityHigh, entry.Severity)
	assert.Equal(t, domain.CategoryAttendance, entry.Category)
	assert.True(t, entry.ComplianceRelevant)
	assert.NotEmpty(t, entry.Checksum)
	require.Len(t, entry.ChangedFields, 1)
	assert.Equal(t, "notes", entry.ChangedFields[0].Field)
}

func TestRecorderSwallowsRepositoryErrors(t *testing.T) {
	repo := &fakeAuditRepo{err: errors.New("insert failed")}

	err := newTestRecorder(repo).Handle(context.Background(), hooks.Event{
		Action:     hooks.ActionCreate,
		EntityType: "squads",
		EntityID:   "squad-1",
	})

	assert.NoError(t, err)
}

func TestSeverityTable(t *testing.T) {
	cases := []struct {
		entityType string
		action     domain.Action
		want       domain.Severity
	}{
		{"users", domain.ActionDelete, domain.SeverityCritical},
		{"audit_logs", domain.ActionDelete, domain.SeverityCritical},
		{"attendance_logs", domain.ActionDelete, domain.SeverityHigh},
		{"users", domain.ActionUpdate, domain.SeverityHigh},
		{"attendance_logs", domain.ActionUpdate, domain.SeverityHigh},
		{"squads", domain.ActionCreate, domain.SeverityMedium},
		{"leave_requests", domain.ActionUpdate, domain.SeverityMedium},
		{"notifications", domain.ActionCreate, domain.SeverityLow},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, severityFor(tc.entityType, tc.action),
			"%s %s", tc.action, tc.entityType)
	}
}

func TestComplianceRelevanceTable(t *testing.T) {
	cases := []struct {
		entityType string
		action     domain.Action
		want       bool
	}{
		{"attendance_logs", domain.ActionCreate, true},
		{"leave_requests", domain.ActionCreate, true},
		{"users", domain.ActionCreate, true},
		{"audit_logs", domain.ActionCreate, true},
		{"squads", domain.ActionUpdate, true},
		{"notifications", domain.ActionDelete, true},
		{"squads", domain.ActionCreate, false},
		{"notifications", domain.ActionCreate, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, complianceRelevant(tc.entityType, tc.action),
			"%s %s", tc.action, tc.entityType)
	}
}

func TestChecksumCoversChangedFields(t *testing.T) {
	repo := &fakeAuditRepo{}
	rec := newTestRecorder(repo)

	entry := rec.buildEntry(hooks.Event{
		Action:     hooks.ActionUpdate,
		EntityType: "attendance_logs",
		EntityID:   "log-1",
		Before:     map[string]any{"notes": "a"},
		After:      map[string]any{"notes": "b"},
	})

	tampered := entry
	tampered.ChangedFields = []domain.FieldChange{{Field: "notes", Old: `"a"`, New: `"c"`}}

	assert.NotEqual(t, checksum(tampered), entry.Checksum)
	assert.Equal(t, checksum(entry), entry.Checksum)
}

func TestDiffObjects(t *testing.T) {
	changes := diffObjects(
		map[string]any{"name": "alpha", "lead_id": "u1", "project": "x"},
		map[string]any{"name": "beta", "lead_id": "u1", "project": "x"},
	)

	require.Len(t, changes, 1)
	assert.Equal(t, "name", changes[0].Field)
	assert.Equal(t, `"alpha"`, changes[0].Old)
	assert.Equal(t, `"beta"`, changes[0].New)
}

func TestDiffObjectsCreate(t *testing.T) {
	changes := diffObjects(nil, map[string]any{"name": "alpha"})

	require.Len(t, changes, 1)
	assert.Equal(t, "name", changes[0].Field)
	assert.Empty(t, changes[0].Old)
	assert.Equal(t, `"alpha"`, changes[0].New)
}
