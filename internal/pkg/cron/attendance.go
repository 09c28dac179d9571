package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/domain/notification"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/email"
)

// AttendanceJobs holds the periodic attendance maintenance work.
type AttendanceJobs struct {
	attendanceRepo  attendance.AttendanceRepository
	userRepo        user.UserRepository
	notificationSvc notification.NotificationService
	emailSvc        email.EmailService
	now             func() time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	notificationSvc notification.NotificationService,
	emailSvc email.EmailService,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo:  attendanceRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		now:             time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, reminderEvery time.Duration) {
	scheduler.AddJob("checkout_reminders", reminderEvery, j.SendCheckoutReminders)
}

// SendCheckoutReminders nudges every member who checked in today but
// has not checked out. There is no dedup: every sweep reminds every
// still-open log again.
func (j *AttendanceJobs) SendCheckoutReminders(ctx context.Context) error {
	now := j.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	open, err := j.attendanceRepo.GetOpenForDate(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to load open attendance logs: %w", err)
	}
	if len(open) == 0 {
		return nil
	}

	slog.Info("Cron: sending checkout reminders", "count", len(open))

	dateStr := today.Format("2006-01-02")
	for _, log := range open {
		link := "/attendance/" + log.ID
		j.notificationSvc.Enqueue(notification.CreateNotificationRequest{
			UserID:  log.UserID,
			Type:    notification.TypeReminder,
			Title:   "Don't forget to check out",
			Message: fmt.Sprintf("You checked in on %s but have not checked out yet", dateStr),
			Link:    &link,
		})

		member, err := j.userRepo.GetByID(ctx, log.UserID)
		if err != nil {
			slog.Error("Cron: failed to load member for reminder email",
				"user_id", log.UserID, "error", err)
			continue
		}
		if err := j.emailSvc.SendCheckoutReminder(member.Email, member.Name, dateStr); err != nil {
			slog.Error("Cron: reminder email failed",
				"user_id", log.UserID, "error", err)
		}
	}

	return nil
}
