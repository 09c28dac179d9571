package attendance

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	"github.com/rylimitless/asamp-backend-go/internal/service/compliance"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
)

type fakeAttendanceRepo struct {
	logs map[string]attendance.AttendanceLog
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{logs: make(map[string]attendance.AttendanceLog)}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, log attendance.AttendanceLog) (attendance.AttendanceLog, error) {
	f.logs[log.ID] = log
	return log, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.AttendanceLog, error) {
	log, ok := f.logs[id]
	if !ok {
		return attendance.AttendanceLog{}, attendance.ErrAttendanceNotFound
	}
	return log, nil
}

func (f *fakeAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.AttendanceLog, error) {
	for _, log := range f.logs {
		if log.UserID == userID && log.Date.Equal(date) {
			return log, nil
		}
	}
	return attendance.AttendanceLog{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceLog, int, error) {
	var out []attendance.AttendanceLog
	for _, log := range f.logs {
		if filter.UserID != "" && log.UserID != filter.UserID {
			continue
		}
		out = append(out, log)
	}
	return out, len(out), nil
}

func (f *fakeAttendanceRepo) ListForRange(ctx context.Context, from, to time.Time, squadID string) ([]attendance.AttendanceLog, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) GetOpenForDate(ctx context.Context, date time.Time) ([]attendance.AttendanceLog, error) {
	var out []attendance.AttendanceLog
	for _, log := range f.logs {
		if log.Date.Equal(date) && log.CheckInTime != nil && log.CheckOutTime == nil {
			out = append(out, log)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, log attendance.AttendanceLog) error {
	f.logs[log.ID] = log
	return nil
}

func (f *fakeAttendanceRepo) Delete(ctx context.Context, id string) error {
	delete(f.logs, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) { return u, nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByGoogleID(ctx context.Context, googleID string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetBySquadID(ctx context.Context, squadID string) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u user.User) error { return nil }

func (f *fakeUserRepo) UnassignSquad(ctx context.Context, squadID string) error { return nil }

type fakeSquadRepo struct {
	squads map[string]squad.Squad
}

func (f *fakeSquadRepo) Create(ctx context.Context, s squad.Squad) (squad.Squad, error) {
	return s, nil
}

func (f *fakeSquadRepo) GetByID(ctx context.Context, id string) (squad.Squad, error) {
	s, ok := f.squads[id]
	if !ok {
		return squad.Squad{}, squad.ErrSquadNotFound
	}
	return s, nil
}

func (f *fakeSquadRepo) GetByName(ctx context.Context, name string) (squad.Squad, error) {
	return squad.Squad{}, squad.ErrSquadNotFound
}

func (f *fakeSquadRepo) GetAll(ctx context.Context) ([]squad.Squad, error) { return nil, nil }

func (f *fakeSquadRepo) Update(ctx context.Context, s squad.Squad) error { return nil }

func (f *fakeSquadRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeSquadRepo) UpdateComplianceScore(ctx context.Context, id string, score float64) error {
	return nil
}

type capturingObserver struct {
	events []hooks.Event
}

func (o *capturingObserver) Name() string { return "capture" }

func (o *capturingObserver) Handle(ctx context.Context, ev hooks.Event) error {
	o.events = append(o.events, ev)
	return nil
}

type fixture struct {
	svc      attendance.AttendanceService
	attRepo  *fakeAttendanceRepo
	observer *capturingObserver
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	squadID := "squad-1"
	attRepo := newFakeAttendanceRepo()
	userRepo := &fakeUserRepo{users: map[string]user.User{
		"user-1": {ID: "user-1", Email: "m@example.com", Name: "Member", Role: user.RoleMember, SquadID: &squadID, IsActive: true},
	}}
	squadRepo := &fakeSquadRepo{squads: map[string]squad.Squad{
		"squad-1": {ID: "squad-1", Name: "Core", TimeZone: "UTC"},
	}}
	observer := &capturingObserver{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewAttendanceService(attRepo, userRepo, squadRepo, compliance.DefaultPolicy(),
		hooks.NewDispatcher(logger, observer), logger)

	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.(*AttendanceServiceImpl).now = func() time.Time { return clock }

	return &fixture{svc: svc, attRepo: attRepo, observer: observer, clock: clock}
}

func TestCheckInCreatesMissingCheckoutLog(t *testing.T) {
	f := newFixture(t)

	log, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{
		UserID:   "user-1",
		WorkMode: "office",
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusMissingCheckout, log.ComplianceStatus)
	require.NotNil(t, log.ComplianceNotes)
	assert.Equal(t, "Pending check-out", *log.ComplianceNotes)
	require.NotNil(t, log.TotalHours)
	assert.Equal(t, 0.0, *log.TotalHours)
	assert.Equal(t, attendance.WorkModeOffice, log.WorkMode)
	require.Len(t, f.observer.events, 1)
	assert.Equal(t, hooks.ActionCreate, f.observer.events[0].Action)
	assert.Equal(t, "attendance_logs", f.observer.events[0].EntityType)
}

func TestCheckInTwiceSameDay(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{UserID: "user-1"})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(context.Background(), attendance.CheckInRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckOutEvaluatesCompliance(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{UserID: "user-1"})
	require.NoError(t, err)

	checkOut := "2025-03-10T17:15:00Z"
	log, err := f.svc.CheckOut(context.Background(), attendance.CheckOutRequest{
		UserID: "user-1",
		Time:   &checkOut,
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusCompliant, log.ComplianceStatus)
	require.NotNil(t, log.TotalHours)
	assert.Equal(t, 8.25, *log.TotalHours)
	require.Len(t, f.observer.events, 2)
	assert.Equal(t, hooks.ActionUpdate, f.observer.events[1].Action)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckOut(context.Background(), attendance.CheckOutRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOutTwice(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{UserID: "user-1"})
	require.NoError(t, err)

	checkOut := "2025-03-10T17:00:00Z"
	_, err = f.svc.CheckOut(context.Background(), attendance.CheckOutRequest{UserID: "user-1", Time: &checkOut})
	require.NoError(t, err)

	_, err = f.svc.CheckOut(context.Background(), attendance.CheckOutRequest{UserID: "user-1", Time: &checkOut})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestUpdateRecomputesDerivedFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{UserID: "user-1"})
	require.NoError(t, err)

	checkOut := "2025-03-10T16:00:00Z"
	created, err := f.svc.CheckOut(context.Background(), attendance.CheckOutRequest{UserID: "user-1", Time: &checkOut})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusEarlyCheckout, created.ComplianceStatus)

	fixedCheckOut := "2025-03-10T17:30:00Z"
	updated, err := f.svc.Update(context.Background(), attendance.UpdateAttendanceRequest{
		ID:           created.ID,
		CheckOutTime: &fixedCheckOut,
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusCompliant, updated.ComplianceStatus)
	require.NotNil(t, updated.TotalHours)
	assert.Equal(t, 8.5, *updated.TotalHours)
}

func TestCheckInFallsBackToPendingOnBadPolicy(t *testing.T) {
	f := newFixture(t)

	badTime := "25:99"
	impl := f.svc.(*AttendanceServiceImpl)
	squadRepo := impl.SquadRepository.(*fakeSquadRepo)
	sq := squadRepo.squads["squad-1"]
	sq.AttendanceRules.StandardCheckInTime = &badTime
	squadRepo.squads["squad-1"] = sq

	log, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{UserID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPending, log.ComplianceStatus)
	require.NotNil(t, log.TotalHours)
	assert.Equal(t, 0.0, *log.TotalHours)
}

func TestDeleteDispatchesEvent(t *testing.T) {
	f := newFixture(t)

	log, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{UserID: "user-1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), log.ID))

	_, err = f.attRepo.GetByID(context.Background(), log.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	require.Len(t, f.observer.events, 2)
	assert.Equal(t, hooks.ActionDelete, f.observer.events[1].Action)
}
