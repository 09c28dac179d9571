package user

import "context"

// UserService defines business logic for member management.
type UserService interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetBySquadID(ctx context.Context, squadID string) ([]User, error)
	Update(ctx context.Context, req UpdateUserRequest) (User, error)
}
