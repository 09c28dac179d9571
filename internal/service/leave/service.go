package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/rylimitless/asamp-backend-go/internal/domain/leave"
	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
)

type LeaveServiceImpl struct {
	leave.LeaveRepository
	user.UserRepository
	squad.SquadRepository

	dispatcher *hooks.Dispatcher
	now        func() time.Time
}

func NewLeaveService(
	leaveRepo leave.LeaveRepository,
	userRepo user.UserRepository,
	squadRepo squad.SquadRepository,
	dispatcher *hooks.Dispatcher,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRepository: leaveRepo,
		UserRepository:  userRepo,
		SquadRepository: squadRepo,
		dispatcher:      dispatcher,
		now:             time.Now,
	}
}

func claimsIdentity(ctx context.Context) (userID, role string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, _ = claims["user_id"].(string)
	role, _ = claims["role"].(string)
	if userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, role, nil
}

// Create implements leave.LeaveService.
func (l *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	userID := req.UserID
	if userID == "" {
		var err error
		userID, _, err = claimsIdentity(ctx)
		if err != nil {
			return leave.LeaveRequest{}, err
		}
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return leave.LeaveRequest{}, leave.ErrEndBeforeStart
	}

	member, err := l.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to load user: %w", err)
	}

	overlapping, err := l.LeaveRepository.GetOverlapping(ctx, userID, start, end)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	if len(overlapping) > 0 {
		return leave.LeaveRequest{}, leave.ErrOverlappingLeave
	}

	lr := leave.LeaveRequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		SquadID:   member.SquadID,
		Type:      leave.LeaveType(req.Type),
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Status:    leave.StatusPendingSquadLead,
	}

	created, err := l.LeaveRepository.Create(ctx, lr)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	l.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionCreate,
		EntityType: "leave_requests",
		EntityID:   created.ID,
		ActorID:    &userID,
		After:      leave.ToResponse(created),
	})

	return created, nil
}

// List implements leave.LeaveService.
func (l *LeaveServiceImpl) List(ctx context.Context, filter leave.ListFilter) (leave.ListResponse, error) {
	filter.Normalize()

	requests, total, err := l.LeaveRepository.List(ctx, filter)
	if err != nil {
		return leave.ListResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveResponse, len(requests))
	for i, lr := range requests {
		responses[i] = leave.ToResponse(lr)
	}

	totalPages := total / filter.PerPage
	if total%filter.PerPage > 0 {
		totalPages++
	}

	return leave.ListResponse{
		Requests:   responses,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages,
	}, nil
}

// GetByID implements leave.LeaveService.
func (l *LeaveServiceImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return l.LeaveRepository.GetByID(ctx, id)
}

// UpdateStatus implements leave.LeaveService. Approver identity and
// the action timestamp are stamped from the authenticated caller.
func (l *LeaveServiceImpl) UpdateStatus(ctx context.Context, req leave.UpdateStatusRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	approverID := req.ApproverID
	role := ""
	if approverID == "" {
		var err error
		approverID, role, err = claimsIdentity(ctx)
		if err != nil {
			return leave.LeaveRequest{}, err
		}
	} else {
		approver, err := l.UserRepository.GetByID(ctx, approverID)
		if err != nil {
			return leave.LeaveRequest{}, fmt.Errorf("failed to load approver: %w", err)
		}
		role = string(approver.Role)
	}

	lr, err := l.LeaveRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if lr.UserID == approverID {
		return leave.LeaveRequest{}, leave.ErrCannotActOnOwnRequest
	}

	next, err := ApplyTransition(lr.Status, leave.Status(req.Status))
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	stage := StageFor(lr.Status)
	if err := l.authorizeStage(ctx, stage, approverID, role, lr); err != nil {
		return leave.LeaveRequest{}, err
	}

	before := leave.ToResponse(lr)
	actionAt := l.now().UTC()

	lr.Status = next
	switch stage {
	case StageSquadLead:
		lr.SquadLeadApproverID = &approverID
		lr.SquadLeadActionAt = &actionAt
		lr.SquadLeadComment = req.Comment
	case StageAdmin:
		lr.AdminApproverID = &approverID
		lr.AdminActionAt = &actionAt
		lr.AdminComment = req.Comment
	}

	if err := l.LeaveRepository.Update(ctx, lr); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	l.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionUpdate,
		EntityType: "leave_requests",
		EntityID:   lr.ID,
		ActorID:    &approverID,
		Before:     before,
		After:      leave.ToResponse(lr),
	})

	return lr, nil
}

// authorizeStage checks the approver against the stage. Admins may act
// at either stage; the squad lead stage additionally accepts the lead
// of the requester's squad.
func (l *LeaveServiceImpl) authorizeStage(ctx context.Context, stage Stage, approverID, role string, lr leave.LeaveRequest) error {
	if role == string(user.RoleAdmin) {
		return nil
	}
	if stage == StageSquadLead && role == string(user.RoleSquadLead) && lr.SquadID != nil {
		sq, err := l.SquadRepository.GetByID(ctx, *lr.SquadID)
		if err != nil {
			if errors.Is(err, squad.ErrSquadNotFound) {
				return leave.ErrNotRequestApprover
			}
			return fmt.Errorf("failed to load squad: %w", err)
		}
		if sq.LeadID != nil && *sq.LeadID == approverID {
			return nil
		}
	}
	return leave.ErrNotRequestApprover
}
