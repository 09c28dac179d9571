package report

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/domain/notification"
	"github.com/rylimitless/asamp-backend-go/internal/domain/report"
	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
)

type fakeReportRepo struct {
	reports map[string]report.Report
}

func (f *fakeReportRepo) Create(ctx context.Context, r report.Report) (report.Report, error) {
	f.reports[r.ID] = r
	return r, nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id string) (report.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return report.Report{}, report.ErrReportNotFound
	}
	return r, nil
}

func (f *fakeReportRepo) GetAll(ctx context.Context) ([]report.Report, error) {
	var all []report.Report
	for _, r := range f.reports {
		all = append(all, r)
	}
	return all, nil
}

func (f *fakeReportRepo) GetDue(ctx context.Context, now time.Time) ([]report.Report, error) {
	var due []report.Report
	for _, r := range f.reports {
		if r.Enabled && r.Status != report.StatusArchived && !r.NextRunAt.After(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

func (f *fakeReportRepo) Update(ctx context.Context, r report.Report) error {
	if _, ok := f.reports[r.ID]; !ok {
		return report.ErrReportNotFound
	}
	f.reports[r.ID] = r
	return nil
}

func (f *fakeReportRepo) Delete(ctx context.Context, id string) error {
	delete(f.reports, id)
	return nil
}

type fakeAttendanceReader struct {
	logs []attendance.AttendanceLog
}

func (f *fakeAttendanceReader) Create(ctx context.Context, log attendance.AttendanceLog) (attendance.AttendanceLog, error) {
	return log, nil
}

func (f *fakeAttendanceReader) GetByID(ctx context.Context, id string) (attendance.AttendanceLog, error) {
	return attendance.AttendanceLog{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceReader) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.AttendanceLog, error) {
	return attendance.AttendanceLog{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceReader) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceLog, int, error) {
	return f.logs, len(f.logs), nil
}

func (f *fakeAttendanceReader) ListForRange(ctx context.Context, from, to time.Time, squadID string) ([]attendance.AttendanceLog, error) {
	return f.logs, nil
}

func (f *fakeAttendanceReader) GetOpenForDate(ctx context.Context, date time.Time) ([]attendance.AttendanceLog, error) {
	return nil, nil
}

func (f *fakeAttendanceReader) Update(ctx context.Context, log attendance.AttendanceLog) error {
	return nil
}

func (f *fakeAttendanceReader) Delete(ctx context.Context, id string) error { return nil }

type fakeUserDirectory struct {
	byEmail map[string]user.User
}

func (f *fakeUserDirectory) Create(ctx context.Context, u user.User) (user.User, error) {
	return u, nil
}

func (f *fakeUserDirectory) GetByID(ctx context.Context, id string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserDirectory) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserDirectory) GetByGoogleID(ctx context.Context, googleID string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserDirectory) GetByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserDirectory) GetBySquadID(ctx context.Context, squadID string) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserDirectory) Update(ctx context.Context, u user.User) error { return nil }

func (f *fakeUserDirectory) UnassignSquad(ctx context.Context, squadID string) error { return nil }

type fakeSquadDirectory struct {
	squads []squad.Squad
	scores map[string]float64
}

func (f *fakeSquadDirectory) Create(ctx context.Context, s squad.Squad) (squad.Squad, error) {
	return s, nil
}

func (f *fakeSquadDirectory) GetByID(ctx context.Context, id string) (squad.Squad, error) {
	return squad.Squad{}, squad.ErrSquadNotFound
}

func (f *fakeSquadDirectory) GetByName(ctx context.Context, name string) (squad.Squad, error) {
	return squad.Squad{}, squad.ErrSquadNotFound
}

func (f *fakeSquadDirectory) GetAll(ctx context.Context) ([]squad.Squad, error) {
	return f.squads, nil
}

func (f *fakeSquadDirectory) Update(ctx context.Context, s squad.Squad) error { return nil }

func (f *fakeSquadDirectory) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeSquadDirectory) UpdateComplianceScore(ctx context.Context, id string, score float64) error {
	if f.scores == nil {
		f.scores = make(map[string]float64)
	}
	f.scores[id] = score
	return nil
}

type fakeMailer struct {
	sent [][]string
}

func (f *fakeMailer) SendReport(ctx context.Context, recipients []string, subject string, metrics report.Metrics) error {
	f.sent = append(f.sent, recipients)
	return nil
}

type fakeNotificationSink struct {
	enqueued []notification.CreateNotificationRequest
}

func (f *fakeNotificationSink) Enqueue(req notification.CreateNotificationRequest) {
	f.enqueued = append(f.enqueued, req)
}

func (f *fakeNotificationSink) EnqueueMany(userIDs []string, typ notification.NotificationType, title, message string, link *string) {
	for _, id := range userIDs {
		f.enqueued = append(f.enqueued, notification.CreateNotificationRequest{
			UserID: id, Type: typ, Title: title, Message: message, Link: link,
		})
	}
}

func (f *fakeNotificationSink) List(ctx context.Context, filter notification.ListFilter) (notification.ListResponse, error) {
	return notification.ListResponse{}, nil
}

func (f *fakeNotificationSink) CountUnread(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (f *fakeNotificationSink) MarkRead(ctx context.Context, userID, id string) error { return nil }

func (f *fakeNotificationSink) MarkAllRead(ctx context.Context, userID string) error { return nil }

func (f *fakeNotificationSink) Delete(ctx context.Context, userID, id string) error { return nil }

func (f *fakeNotificationSink) Stop() {}

type reportFixture struct {
	svc      report.ReportService
	repo     *fakeReportRepo
	mailer   *fakeMailer
	notifier *fakeNotificationSink
	squads   *fakeSquadDirectory
	clock    time.Time
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	repo := &fakeReportRepo{reports: make(map[string]report.Report)}
	attRepo := &fakeAttendanceReader{logs: []attendance.AttendanceLog{
		{UserID: "u1", Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), ComplianceStatus: attendance.StatusCompliant, TotalHours: hoursPtr(8)},
		{UserID: "u2", Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), ComplianceStatus: attendance.StatusLateCheckin, TotalHours: hoursPtr(7)},
	}}
	userRepo := &fakeUserDirectory{byEmail: map[string]user.User{
		"lead@example.com":  {ID: "user-lead", Email: "lead@example.com"},
		"admin@example.com": {ID: "user-admin", Email: "admin@example.com"},
	}}
	squadRepo := &fakeSquadDirectory{}
	mailer := &fakeMailer{}
	notifier := &fakeNotificationSink{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewReportService(repo, attRepo, userRepo, squadRepo, mailer, notifier, logger)

	clock := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
	svc.(*ReportServiceImpl).now = func() time.Time { return clock }

	return &reportFixture{
		svc: svc, repo: repo, mailer: mailer, notifier: notifier,
		squads: squadRepo, clock: clock,
	}
}

func (f *reportFixture) seed(rep report.Report) report.Report {
	f.repo.reports[rep.ID] = rep
	return rep
}

func TestRunScheduledNotifiesEveryRecipient(t *testing.T) {
	f := newReportFixture(t)
	f.seed(report.Report{
		ID:         "rep-1",
		Name:       "Weekly",
		Schedule:   report.ScheduleWeekly,
		Recipients: []string{"lead@example.com", "admin@example.com"},
		Enabled:    true,
		Status:     report.StatusDraft,
		NextRunAt:  f.clock.Add(-time.Hour),
		CreatedBy:  "creator-1",
	})

	require.NoError(t, f.svc.RunScheduled(context.Background()))

	require.Len(t, f.mailer.sent, 1)
	require.Len(t, f.notifier.enqueued, 2)
	recipients := []string{f.notifier.enqueued[0].UserID, f.notifier.enqueued[1].UserID}
	assert.ElementsMatch(t, []string{"user-lead", "user-admin"}, recipients)
	for _, n := range f.notifier.enqueued {
		assert.Equal(t, notification.TypeReport, n.Type)
	}
}

func TestRunScheduledSkipsRecipientsWithoutAccount(t *testing.T) {
	f := newReportFixture(t)
	f.seed(report.Report{
		ID:         "rep-1",
		Name:       "Weekly",
		Schedule:   report.ScheduleWeekly,
		Recipients: []string{"lead@example.com", "ghost@example.com"},
		Enabled:    true,
		NextRunAt:  f.clock.Add(-time.Hour),
	})

	require.NoError(t, f.svc.RunScheduled(context.Background()))

	require.Len(t, f.notifier.enqueued, 1)
	assert.Equal(t, "user-lead", f.notifier.enqueued[0].UserID)
}

func TestRunScheduledAdvancesLifecycle(t *testing.T) {
	f := newReportFixture(t)
	f.seed(report.Report{
		ID:         "rep-1",
		Name:       "Weekly",
		Schedule:   report.ScheduleWeekly,
		Recipients: []string{"lead@example.com"},
		Enabled:    true,
		Status:     report.StatusDraft,
		NextRunAt:  f.clock.Add(-time.Hour),
	})

	require.NoError(t, f.svc.RunScheduled(context.Background()))

	stored := f.repo.reports["rep-1"]
	assert.Equal(t, report.StatusSent, stored.Status)
	require.NotNil(t, stored.Metrics)
	assert.Equal(t, 2, stored.Metrics.TotalAttendanceLogs)
	require.NotNil(t, stored.GeneratedAt)
	assert.Equal(t, f.clock.UTC(), *stored.GeneratedAt)
	require.NotNil(t, stored.LastRunAt)
	assert.True(t, stored.NextRunAt.After(f.clock))
}

func TestRunScheduledWithoutRecipientsStopsAtGenerated(t *testing.T) {
	f := newReportFixture(t)
	f.seed(report.Report{
		ID:        "rep-1",
		Name:      "Weekly",
		Schedule:  report.ScheduleWeekly,
		Enabled:   true,
		Status:    report.StatusDraft,
		NextRunAt: f.clock.Add(-time.Hour),
	})

	require.NoError(t, f.svc.RunScheduled(context.Background()))

	stored := f.repo.reports["rep-1"]
	assert.Equal(t, report.StatusGenerated, stored.Status)
	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.notifier.enqueued)
}

func TestRunScheduledSkipsArchivedReports(t *testing.T) {
	f := newReportFixture(t)
	f.seed(report.Report{
		ID:        "rep-1",
		Name:      "Weekly",
		Schedule:  report.ScheduleWeekly,
		Enabled:   true,
		Status:    report.StatusArchived,
		NextRunAt: f.clock.Add(-time.Hour),
	})

	require.NoError(t, f.svc.RunScheduled(context.Background()))

	stored := f.repo.reports["rep-1"]
	assert.Equal(t, report.StatusArchived, stored.Status)
	assert.Nil(t, stored.Metrics)
	assert.Empty(t, f.mailer.sent)
}

func TestGeneratePersistsMetrics(t *testing.T) {
	f := newReportFixture(t)
	f.seed(report.Report{
		ID:       "rep-1",
		Name:     "Weekly",
		Schedule: report.ScheduleWeekly,
		Enabled:  true,
		Status:   report.StatusDraft,
	})

	metrics, err := f.svc.Generate(context.Background(), "rep-1")
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.TotalAttendanceLogs)

	stored := f.repo.reports["rep-1"]
	assert.Equal(t, report.StatusGenerated, stored.Status)
	require.NotNil(t, stored.Metrics)
	assert.Equal(t, metrics, *stored.Metrics)
	require.NotNil(t, stored.GeneratedAt)
}

func TestGenerateAppliesReportFilters(t *testing.T) {
	f := newReportFixture(t)
	f.seed(report.Report{
		ID:          "rep-1",
		Name:        "Weekly",
		Schedule:    report.ScheduleWeekly,
		Enabled:     true,
		FilterUsers: []string{"u1"},
	})

	metrics, err := f.svc.Generate(context.Background(), "rep-1")
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.TotalAttendanceLogs)
	assert.Equal(t, 1, metrics.TotalMembers)
}

func TestApplyFiltersByStatus(t *testing.T) {
	logs := []attendance.AttendanceLog{
		{UserID: "u1", ComplianceStatus: attendance.StatusCompliant},
		{UserID: "u2", ComplianceStatus: attendance.StatusLateCheckin},
		{UserID: "u3", ComplianceStatus: attendance.StatusCompliant},
	}

	kept := applyFilters(logs, nil, []string{string(attendance.StatusCompliant)})
	require.Len(t, kept, 2)

	kept = applyFilters(logs, []string{"u3"}, []string{string(attendance.StatusCompliant)})
	require.Len(t, kept, 1)
	assert.Equal(t, "u3", kept[0].UserID)

	assert.Len(t, applyFilters(logs, nil, nil), 3)
}
