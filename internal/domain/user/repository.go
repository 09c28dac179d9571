package user

import "context"

// UserRepository defines data access methods for users.
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByGoogleID(ctx context.Context, googleID string) (User, error)

	// GetByRole retrieves all active users holding a role.
	// Used by the notification dispatcher to fan out to admins.
	GetByRole(ctx context.Context, role Role) ([]User, error)

	// GetBySquadID retrieves all active members of a squad.
	GetBySquadID(ctx context.Context, squadID string) ([]User, error)

	Update(ctx context.Context, u User) error

	// UnassignSquad clears the squad assignment of every member of a
	// squad. Called when the squad is deleted.
	UnassignSquad(ctx context.Context, squadID string) error
}
