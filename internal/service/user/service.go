package user

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
)

type UserServiceImpl struct {
	user.UserRepository
	squad.SquadRepository

	dispatcher *hooks.Dispatcher
}

func NewUserService(
	userRepo user.UserRepository,
	squadRepo squad.SquadRepository,
	dispatcher *hooks.Dispatcher,
) user.UserService {
	return &UserServiceImpl{
		UserRepository:  userRepo,
		SquadRepository: squadRepo,
		dispatcher:      dispatcher,
	}
}

// GetByID implements user.UserService.
func (u *UserServiceImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return u.UserRepository.GetByID(ctx, id)
}

// GetBySquadID implements user.UserService.
func (u *UserServiceImpl) GetBySquadID(ctx context.Context, squadID string) ([]user.User, error) {
	if _, err := u.SquadRepository.GetByID(ctx, squadID); err != nil {
		return nil, err
	}
	return u.UserRepository.GetBySquadID(ctx, squadID)
}

// Update implements user.UserService. Role and squad changes flow
// through here so they are always audited.
func (u *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	member, err := u.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.User{}, err
	}
	before := user.ToResponse(member)

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Role != nil {
		member.Role = user.Role(*req.Role)
	}
	if req.SquadID != nil {
		if *req.SquadID == "" {
			member.SquadID = nil
		} else {
			if _, err := u.SquadRepository.GetByID(ctx, *req.SquadID); err != nil {
				return user.User{}, err
			}
			member.SquadID = req.SquadID
		}
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}

	if err := u.UserRepository.Update(ctx, member); err != nil {
		return user.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	u.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionUpdate,
		EntityType: "users",
		EntityID:   member.ID,
		ActorID:    actorFromContext(ctx),
		Before:     before,
		After:      user.ToResponse(member),
	})

	return member, nil
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
