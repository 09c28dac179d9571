package squad

import "context"

// SquadRepository defines data access methods for squads.
type SquadRepository interface {
	Create(ctx context.Context, s Squad) (Squad, error)
	GetByID(ctx context.Context, id string) (Squad, error)
	GetByName(ctx context.Context, name string) (Squad, error)
	GetAll(ctx context.Context) ([]Squad, error)
	Update(ctx context.Context, s Squad) error
	Delete(ctx context.Context, id string) error

	// UpdateComplianceScore persists a recomputed squad compliance score.
	UpdateComplianceScore(ctx context.Context, id string, score float64) error
}

// SquadService defines business logic for squad management.
type SquadService interface {
	Create(ctx context.Context, req CreateSquadRequest) (Squad, error)
	GetByID(ctx context.Context, id string) (Squad, error)
	GetAll(ctx context.Context) ([]Squad, error)
	Update(ctx context.Context, req UpdateSquadRequest) (Squad, error)
	Delete(ctx context.Context, id string) error
}
