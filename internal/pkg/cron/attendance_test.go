package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/domain/notification"
	"github.com/rylimitless/asamp-backend-go/internal/domain/report"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
)

type fakeOpenLogRepo struct {
	open []attendance.AttendanceLog
}

func (f *fakeOpenLogRepo) Create(ctx context.Context, log attendance.AttendanceLog) (attendance.AttendanceLog, error) {
	return log, nil
}

func (f *fakeOpenLogRepo) GetByID(ctx context.Context, id string) (attendance.AttendanceLog, error) {
	return attendance.AttendanceLog{}, attendance.ErrAttendanceNotFound
}

func (f *fakeOpenLogRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.AttendanceLog, error) {
	return attendance.AttendanceLog{}, attendance.ErrAttendanceNotFound
}

func (f *fakeOpenLogRepo) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceLog, int, error) {
	return nil, 0, nil
}

func (f *fakeOpenLogRepo) ListForRange(ctx context.Context, from, to time.Time, squadID string) ([]attendance.AttendanceLog, error) {
	return nil, nil
}

func (f *fakeOpenLogRepo) GetOpenForDate(ctx context.Context, date time.Time) ([]attendance.AttendanceLog, error) {
	return f.open, nil
}

func (f *fakeOpenLogRepo) Update(ctx context.Context, log attendance.AttendanceLog) error {
	return nil
}

func (f *fakeOpenLogRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeMemberRepo struct {
	users map[string]user.User
}

func (f *fakeMemberRepo) Create(ctx context.Context, u user.User) (user.User, error) { return u, nil }

func (f *fakeMemberRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeMemberRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeMemberRepo) GetByGoogleID(ctx context.Context, googleID string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeMemberRepo) GetByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	return nil, nil
}

func (f *fakeMemberRepo) GetBySquadID(ctx context.Context, squadID string) ([]user.User, error) {
	return nil, nil
}

func (f *fakeMemberRepo) Update(ctx context.Context, u user.User) error { return nil }

func (f *fakeMemberRepo) UnassignSquad(ctx context.Context, squadID string) error { return nil }

type fakeReminderSink struct {
	enqueued []notification.CreateNotificationRequest
}

func (f *fakeReminderSink) Enqueue(req notification.CreateNotificationRequest) {
	f.enqueued = append(f.enqueued, req)
}

func (f *fakeReminderSink) EnqueueMany(userIDs []string, typ notification.NotificationType, title, message string, link *string) {
	for _, id := range userIDs {
		f.enqueued = append(f.enqueued, notification.CreateNotificationRequest{
			UserID: id, Type: typ, Title: title, Message: message, Link: link,
		})
	}
}

func (f *fakeReminderSink) List(ctx context.Context, filter notification.ListFilter) (notification.ListResponse, error) {
	return notification.ListResponse{}, nil
}

func (f *fakeReminderSink) CountUnread(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (f *fakeReminderSink) MarkRead(ctx context.Context, userID, id string) error { return nil }

func (f *fakeReminderSink) MarkAllRead(ctx context.Context, userID string) error { return nil }

func (f *fakeReminderSink) Delete(ctx context.Context, userID, id string) error { return nil }

func (f *fakeReminderSink) Stop() {}

type fakeEmailService struct {
	reminders []string
}

func (f *fakeEmailService) SendReport(ctx context.Context, recipients []string, subject string, metrics report.Metrics) error {
	return nil
}

func (f *fakeEmailService) SendCheckoutReminder(to, userName, date string) error {
	f.reminders = append(f.reminders, to)
	return nil
}

func newReminderJobs(open []attendance.AttendanceLog) (*AttendanceJobs, *fakeReminderSink, *fakeEmailService) {
	sink := &fakeReminderSink{}
	mail := &fakeEmailService{}
	jobs := NewAttendanceJobs(
		&fakeOpenLogRepo{open: open},
		&fakeMemberRepo{users: map[string]user.User{
			"user-1": {ID: "user-1", Email: "one@example.com", Name: "One"},
			"user-2": {ID: "user-2", Email: "two@example.com", Name: "Two"},
		}},
		sink,
		mail,
	)
	jobs.now = func() time.Time {
		return time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	}
	return jobs, sink, mail
}

func TestSendCheckoutRemindersOnePerOpenLog(t *testing.T) {
	jobs, sink, mail := newReminderJobs([]attendance.AttendanceLog{
		{ID: "log-1", UserID: "user-1"},
		{ID: "log-2", UserID: "user-2"},
	})

	require.NoError(t, jobs.SendCheckoutReminders(context.Background()))

	require.Len(t, sink.enqueued, 2)
	assert.Equal(t, "user-1", sink.enqueued[0].UserID)
	assert.Equal(t, notification.TypeReminder, sink.enqueued[0].Type)
	assert.Equal(t, "user-2", sink.enqueued[1].UserID)
	assert.Equal(t, []string{"one@example.com", "two@example.com"}, mail.reminders)
}

func TestSendCheckoutRemindersRepeatOnRerun(t *testing.T) {
	jobs, sink, _ := newReminderJobs([]attendance.AttendanceLog{
		{ID: "log-1", UserID: "user-1"},
	})

	require.NoError(t, jobs.SendCheckoutReminders(context.Background()))
	require.NoError(t, jobs.SendCheckoutReminders(context.Background()))

	// Still-open logs are reminded again on every sweep.
	require.Len(t, sink.enqueued, 2)
	assert.Equal(t, "user-1", sink.enqueued[0].UserID)
	assert.Equal(t, "user-1", sink.enqueued[1].UserID)
}

func TestSendCheckoutRemindersNoOpenLogs(t *testing.T) {
	jobs, sink, mail := newReminderJobs(nil)

	require.NoError(t, jobs.SendCheckoutReminders(context.Background()))

	assert.Empty(t, sink.enqueued)
	assert.Empty(t, mail.reminders)
}

func TestSendCheckoutRemindersSurvivesMissingMember(t *testing.T) {
	jobs, sink, mail := newReminderJobs([]attendance.AttendanceLog{
		{ID: "log-1", UserID: "ghost"},
		{ID: "log-2", UserID: "user-1"},
	})

	require.NoError(t, jobs.SendCheckoutReminders(context.Background()))

	// The in-app nudge still goes out even when the email lookup fails.
	require.Len(t, sink.enqueued, 2)
	assert.Equal(t, []string{"one@example.com"}, mail.reminders)
}
