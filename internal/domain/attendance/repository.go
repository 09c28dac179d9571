package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance logs.
type AttendanceRepository interface {
	Create(ctx context.Context, log AttendanceLog) (AttendanceLog, error)
	GetByID(ctx context.Context, id string) (AttendanceLog, error)

	// GetByUserAndDate retrieves a user's log for a calendar date.
	// Returns ErrAttendanceNotFound when none exists.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (AttendanceLog, error)

	// List retrieves logs matching the filter, newest date first,
	// together with the unpaginated match count.
	List(ctx context.Context, filter ListFilter) ([]AttendanceLog, int, error)

	// ListForRange retrieves all logs in [from, to] without pagination.
	// Used by report generation and CSV export.
	ListForRange(ctx context.Context, from, to time.Time, squadID string) ([]AttendanceLog, error)

	// GetOpenForDate retrieves every log on a date with a check-in but
	// no check-out. Used by the checkout reminder sweep.
	GetOpenForDate(ctx context.Context, date time.Time) ([]AttendanceLog, error)

	Update(ctx context.Context, log AttendanceLog) error
	Delete(ctx context.Context, id string) error
}

// AttendanceService defines business logic for attendance tracking.
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceLog, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceLog, error)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	ListMine(ctx context.Context, filter ListFilter) (ListResponse, error)
	GetByID(ctx context.Context, id string) (AttendanceLog, error)
	Update(ctx context.Context, req UpdateAttendanceRequest) (AttendanceLog, error)
	Delete(ctx context.Context, id string) error
}
