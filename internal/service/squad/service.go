package squad

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/database"
	"github.com/rylimitless/asamp-backend-go/internal/repository/postgresql"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
)

type SquadServiceImpl struct {
	squad.SquadRepository
	user.UserRepository

	db         *database.DB
	dispatcher *hooks.Dispatcher
}

func NewSquadService(
	db *database.DB,
	squadRepo squad.SquadRepository,
	userRepo user.UserRepository,
	dispatcher *hooks.Dispatcher,
) squad.SquadService {
	return &SquadServiceImpl{
		SquadRepository: squadRepo,
		UserRepository:  userRepo,
		db:              db,
		dispatcher:      dispatcher,
	}
}

func actorFromContext(ctx context.Context) *string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil
	}
	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return &userID
	}
	return nil
}

// Create implements squad.SquadService.
func (s *SquadServiceImpl) Create(ctx context.Context, req squad.CreateSquadRequest) (squad.Squad, error) {
	if err := req.Validate(); err != nil {
		return squad.Squad{}, err
	}

	if _, err := s.SquadRepository.GetByName(ctx, req.Name); err == nil {
		return squad.Squad{}, squad.ErrNameExists
	} else if !errors.Is(err, squad.ErrSquadNotFound) {
		return squad.Squad{}, fmt.Errorf("failed to check squad name: %w", err)
	}

	if req.LeadID != nil {
		if _, err := s.UserRepository.GetByID(ctx, *req.LeadID); err != nil {
			return squad.Squad{}, fmt.Errorf("failed to load squad lead: %w", err)
		}
	}

	timeZone := req.TimeZone
	if timeZone == "" {
		timeZone = "UTC"
	}

	sq := squad.Squad{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		LeadID:      req.LeadID,
		Project:     req.Project,
		TimeZone:    timeZone,
		Workdays:    req.Workdays,
		AttendanceRules: squad.AttendanceRules{
			MinimumWorkHours:              req.MinimumWorkHours,
			StandardCheckInTime:           req.StandardCheckInTime,
			StandardCheckOutTime:          req.StandardCheckOutTime,
			LateThresholdMinutes:          req.LateThresholdMinutes,
			EarlyCheckoutThresholdMinutes: req.EarlyCheckoutThresholdMinutes,
		},
	}

	created, err := s.SquadRepository.Create(ctx, sq)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("failed to create squad: %w", err)
	}

	s.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionCreate,
		EntityType: "squads",
		EntityID:   created.ID,
		ActorID:    actorFromContext(ctx),
		After:      squad.ToResponse(created),
	})

	return created, nil
}

// GetByID implements squad.SquadService.
func (s *SquadServiceImpl) GetByID(ctx context.Context, id string) (squad.Squad, error) {
	return s.SquadRepository.GetByID(ctx, id)
}

// GetAll implements squad.SquadService.
func (s *SquadServiceImpl) GetAll(ctx context.Context) ([]squad.Squad, error) {
	return s.SquadRepository.GetAll(ctx)
}

// Update implements squad.SquadService.
func (s *SquadServiceImpl) Update(ctx context.Context, req squad.UpdateSquadRequest) (squad.Squad, error) {
	if err := req.Validate(); err != nil {
		return squad.Squad{}, err
	}

	sq, err := s.SquadRepository.GetByID(ctx, req.ID)
	if err != nil {
		return squad.Squad{}, err
	}
	before := squad.ToResponse(sq)

	// Admins may edit any squad; a squad lead only their own.
	if _, claims, err := jwtauth.FromContext(ctx); err == nil {
		role, _ := claims["role"].(string)
		if role != "" && user.Role(role) != user.RoleAdmin {
			actorID, _ := claims["user_id"].(string)
			if sq.LeadID == nil || *sq.LeadID != actorID {
				return squad.Squad{}, squad.ErrNotSquadLead
			}
		}
	}

	if req.Name != nil && *req.Name != sq.Name {
		if _, err := s.SquadRepository.GetByName(ctx, *req.Name); err == nil {
			return squad.Squad{}, squad.ErrNameExists
		} else if !errors.Is(err, squad.ErrSquadNotFound) {
			return squad.Squad{}, fmt.Errorf("failed to check squad name: %w", err)
		}
		sq.Name = *req.Name
	}
	if req.Description != nil {
		sq.Description = req.Description
	}
	if req.LeadID != nil {
		if _, err := s.UserRepository.GetByID(ctx, *req.LeadID); err != nil {
			return squad.Squad{}, fmt.Errorf("failed to load squad lead: %w", err)
		}
		sq.LeadID = req.LeadID
	}
	if req.Project != nil {
		sq.Project = req.Project
	}
	if req.TimeZone != nil {
		sq.TimeZone = *req.TimeZone
	}
	if req.Workdays != nil {
		sq.Workdays = req.Workdays
	}
	if req.MinimumWorkHours != nil {
		sq.AttendanceRules.MinimumWorkHours = req.MinimumWorkHours
	}
	if req.StandardCheckInTime != nil {
		sq.AttendanceRules.StandardCheckInTime = req.StandardCheckInTime
	}
	if req.StandardCheckOutTime != nil {
		sq.AttendanceRules.StandardCheckOutTime = req.StandardCheckOutTime
	}
	if req.LateThresholdMinutes != nil {
		sq.AttendanceRules.LateThresholdMinutes = req.LateThresholdMinutes
	}
	if req.EarlyCheckoutThresholdMinutes != nil {
		sq.AttendanceRules.EarlyCheckoutThresholdMinutes = req.EarlyCheckoutThresholdMinutes
	}

	if err := s.SquadRepository.Update(ctx, sq); err != nil {
		return squad.Squad{}, fmt.Errorf("failed to update squad: %w", err)
	}

	s.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionUpdate,
		EntityType: "squads",
		EntityID:   sq.ID,
		ActorID:    actorFromContext(ctx),
		Before:     before,
		After:      squad.ToResponse(sq),
	})

	return sq, nil
}

// Delete implements squad.SquadService.
func (s *SquadServiceImpl) Delete(ctx context.Context, id string) error {
	sq, err := s.SquadRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Members are unassigned in the same transaction so the squad
	// never disappears while users still point at it.
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.UserRepository.UnassignSquad(txCtx, id); err != nil {
			return err
		}
		return s.SquadRepository.Delete(txCtx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete squad: %w", err)
	}

	s.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionDelete,
		EntityType: "squads",
		EntityID:   id,
		ActorID:    actorFromContext(ctx),
		Before:     squad.ToResponse(sq),
	})

	return nil
}

