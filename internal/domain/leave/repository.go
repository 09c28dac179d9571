package leave

import (
	"context"
	"time"
)

// LeaveRepository defines data access methods for leave requests.
type LeaveRepository interface {
	Create(ctx context.Context, lr LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int, error)

	// GetOverlapping retrieves a user's non-rejected requests whose
	// date range intersects [start, end].
	GetOverlapping(ctx context.Context, userID string, start, end time.Time) ([]LeaveRequest, error)

	Update(ctx context.Context, lr LeaveRequest) error
	Delete(ctx context.Context, id string) error
}

// LeaveService defines business logic for the leave approval chain.
type LeaveService interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveRequest, error)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (LeaveRequest, error)
}
