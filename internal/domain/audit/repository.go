package audit

import (
	"context"
	"time"
)

type ListFilter struct {
	ActorID    string
	EntityType string
	EntityID   string
	Severity   string
	Category   string
	From       *time.Time
	To         *time.Time
	Page       int
	PerPage    int
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 50
	}
}

func (f *ListFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// AuditRepository defines data access methods for audit entries.
// Entries are append-only: there is no update or delete.
type AuditRepository interface {
	Create(ctx context.Context, e Entry) error
	List(ctx context.Context, filter ListFilter) ([]Entry, int, error)
}
