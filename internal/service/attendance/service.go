package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	"github.com/rylimitless/asamp-backend-go/internal/service/compliance"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	squad.SquadRepository

	defaults   compliance.Policy
	dispatcher *hooks.Dispatcher
	logger     *slog.Logger
	now        func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	squadRepo squad.SquadRepository,
	defaults compliance.Policy,
	dispatcher *hooks.Dispatcher,
	logger *slog.Logger,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		SquadRepository:      squadRepo,
		defaults:             defaults,
		dispatcher:           dispatcher,
		logger:               logger,
		now:                  time.Now,
	}
}

func claimsUserID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceLog, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceLog{}, err
	}

	userID := req.UserID
	if userID == "" {
		var err error
		userID, err = claimsUserID(ctx)
		if err != nil {
			return attendance.AttendanceLog{}, err
		}
	}

	member, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.AttendanceLog{}, fmt.Errorf("failed to load user: %w", err)
	}

	checkIn := a.now().UTC()
	if req.Time != nil {
		checkIn, err = parseRFC3339(*req.Time)
		if err != nil {
			return attendance.AttendanceLog{}, err
		}
	}

	loc := a.memberLocation(ctx, member.SquadID)
	localCheckIn := checkIn.In(loc)
	date := midnight(localCheckIn)

	existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceLog{}, fmt.Errorf("failed to look up today's log: %w", err)
	}
	if err == nil && existing.CheckInTime != nil {
		return attendance.AttendanceLog{}, attendance.ErrAlreadyCheckedIn
	}

	workMode := attendance.WorkMode(req.WorkMode)
	if workMode == "" {
		workMode = attendance.WorkModeRemote
	}

	log := attendance.AttendanceLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		SquadID:     member.SquadID,
		Date:        date,
		CheckInTime: &localCheckIn,
		Location:    req.Location,
		WorkMode:    workMode,
		Notes:       req.Notes,
	}
	a.applyCompliance(ctx, &log)

	created, err := a.AttendanceRepository.Create(ctx, log)
	if err != nil {
		return attendance.AttendanceLog{}, fmt.Errorf("failed to create attendance log: %w", err)
	}

	a.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionCreate,
		EntityType: "attendance_logs",
		EntityID:   created.ID,
		ActorID:    &userID,
		After:      attendance.ToResponse(created),
	})

	return created, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceLog, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceLog{}, err
	}

	userID := req.UserID
	if userID == "" {
		var err error
		userID, err = claimsUserID(ctx)
		if err != nil {
			return attendance.AttendanceLog{}, err
		}
	}

	member, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.AttendanceLog{}, fmt.Errorf("failed to load user: %w", err)
	}

	checkOut := a.now().UTC()
	if req.Time != nil {
		checkOut, err = parseRFC3339(*req.Time)
		if err != nil {
			return attendance.AttendanceLog{}, err
		}
	}

	loc := a.memberLocation(ctx, member.SquadID)
	localCheckOut := checkOut.In(loc)
	date := midnight(localCheckOut)

	log, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceLog{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceLog{}, fmt.Errorf("failed to look up today's log: %w", err)
	}
	if log.CheckInTime == nil {
		return attendance.AttendanceLog{}, attendance.ErrNotCheckedIn
	}
	if log.CheckOutTime != nil {
		return attendance.AttendanceLog{}, attendance.ErrAlreadyCheckedOut
	}

	before := attendance.ToResponse(log)
	log.CheckOutTime = &localCheckOut
	if req.Notes != nil {
		log.Notes = req.Notes
	}
	a.applyCompliance(ctx, &log)

	if err := a.AttendanceRepository.Update(ctx, log); err != nil {
		return attendance.AttendanceLog{}, fmt.Errorf("failed to update attendance log: %w", err)
	}

	a.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionUpdate,
		EntityType: "attendance_logs",
		EntityID:   log.ID,
		ActorID:    &userID,
		Before:     before,
		After:      attendance.ToResponse(log),
	})

	return log, nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.ListFilter) (attendance.ListResponse, error) {
	filter.Normalize()

	logs, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance logs: %w", err)
	}

	return buildListResponse(logs, total, filter), nil
}

// ListMine implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMine(ctx context.Context, filter attendance.ListFilter) (attendance.ListResponse, error) {
	userID, err := claimsUserID(ctx)
	if err != nil {
		return attendance.ListResponse{}, err
	}
	filter.UserID = userID
	return a.List(ctx, filter)
}

// GetByID implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceLog, error) {
	return a.AttendanceRepository.GetByID(ctx, id)
}

// Update implements attendance.AttendanceService. This is the admin
// correction path: any change to the raw times triggers a full
// compliance re-evaluation.
func (a *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceLog, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceLog{}, err
	}

	log, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceLog{}, err
	}
	before := attendance.ToResponse(log)

	if req.CheckInTime != nil {
		t, err := parseRFC3339(*req.CheckInTime)
		if err != nil {
			return attendance.AttendanceLog{}, err
		}
		log.CheckInTime = &t
	}
	if req.CheckOutTime != nil {
		t, err := parseRFC3339(*req.CheckOutTime)
		if err != nil {
			return attendance.AttendanceLog{}, err
		}
		log.CheckOutTime = &t
	}
	if req.Location != nil {
		log.Location = req.Location
	}
	if req.WorkMode != nil {
		log.WorkMode = attendance.WorkMode(*req.WorkMode)
	}
	if req.Notes != nil {
		log.Notes = req.Notes
	}
	if req.Verified != nil {
		log.Verified = *req.Verified
	}

	a.applyCompliance(ctx, &log)

	if err := a.AttendanceRepository.Update(ctx, log); err != nil {
		return attendance.AttendanceLog{}, fmt.Errorf("failed to update attendance log: %w", err)
	}

	actorID, _ := claimsUserID(ctx)
	var actor *string
	if actorID != "" {
		actor = &actorID
	}

	a.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionUpdate,
		EntityType: "attendance_logs",
		EntityID:   log.ID,
		ActorID:    actor,
		Before:     before,
		After:      attendance.ToResponse(log),
	})

	return log, nil
}

// Delete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	log, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := a.AttendanceRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attendance log: %w", err)
	}

	actorID, _ := claimsUserID(ctx)
	var actor *string
	if actorID != "" {
		actor = &actorID
	}

	a.dispatcher.Dispatch(ctx, hooks.Event{
		Action:     hooks.ActionDelete,
		EntityType: "attendance_logs",
		EntityID:   id,
		ActorID:    actor,
		Before:     attendance.ToResponse(log),
	})

	return nil
}

// applyCompliance recomputes the derived fields on a log. Evaluation
// failures never block the write: the log falls back to pending and
// the failure is logged for an admin to chase.
func (a *AttendanceServiceImpl) applyCompliance(ctx context.Context, log *attendance.AttendanceLog) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("compliance evaluation panicked",
				slog.String("log_id", log.ID),
				slog.Any("panic", r),
			)
			markPending(log)
		}
	}()

	policy := a.resolvePolicy(ctx, log.SquadID)

	result, err := compliance.Evaluate(log.Date, log.CheckInTime, log.CheckOutTime, policy)
	if err != nil {
		a.logger.Error("compliance evaluation failed",
			slog.String("log_id", log.ID),
			slog.Any("error", err),
		)
		markPending(log)
		return
	}

	log.TotalHours = result.TotalHours
	log.ComplianceStatus = result.Status
	log.LateMinutes = result.LateMinutes
	log.EarlyCheckoutMinutes = result.EarlyCheckoutMinutes
	if result.Notes != "" {
		notes := result.Notes
		log.ComplianceNotes = &notes
	} else {
		log.ComplianceNotes = nil
	}
}

// resolvePolicy merges the squad's overrides over the defaults. A
// missing squad or a lookup failure falls back to the defaults so a
// check-in never fails on policy resolution.
func (a *AttendanceServiceImpl) resolvePolicy(ctx context.Context, squadID *string) compliance.Policy {
	if squadID == nil {
		return a.defaults
	}
	sq, err := a.SquadRepository.GetByID(ctx, *squadID)
	if err != nil {
		if !errors.Is(err, squad.ErrSquadNotFound) {
			a.logger.Warn("squad lookup failed during policy resolution",
				slog.String("squad_id", *squadID),
				slog.Any("error", err),
			)
		}
		return a.defaults
	}
	return compliance.Resolve(a.defaults, sq.AttendanceRules)
}

func (a *AttendanceServiceImpl) memberLocation(ctx context.Context, squadID *string) *time.Location {
	if squadID == nil {
		return time.UTC
	}
	sq, err := a.SquadRepository.GetByID(ctx, *squadID)
	if err != nil {
		return time.UTC
	}
	loc, err := time.LoadLocation(sq.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func markPending(log *attendance.AttendanceLog) {
	zero := 0.0
	log.TotalHours = &zero
	log.ComplianceStatus = attendance.StatusPending
	log.ComplianceNotes = nil
	log.LateMinutes = 0
	log.EarlyCheckoutMinutes = 0
}

func parseRFC3339(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func buildListResponse(logs []attendance.AttendanceLog, total int, filter attendance.ListFilter) attendance.ListResponse {
	responses := make([]attendance.AttendanceResponse, len(logs))
	for i, log := range logs {
		responses[i] = attendance.ToResponse(log)
	}

	totalPages := total / filter.PerPage
	if total%filter.PerPage > 0 {
		totalPages++
	}

	return attendance.ListResponse{
		Logs:       responses,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages,
	}
}
