package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/domain/notification"
	"github.com/rylimitless/asamp-backend-go/internal/domain/report"
	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
)

// Mailer delivers a generated report to its email recipients.
type Mailer interface {
	SendReport(ctx context.Context, recipients []string, subject string, metrics report.Metrics) error
}

type ReportServiceImpl struct {
	report.ReportRepository
	attendance.AttendanceRepository
	user.UserRepository
	squad.SquadRepository

	mailer        Mailer
	notifications notification.NotificationService
	logger        *slog.Logger
	now           func() time.Time
}

func NewReportService(
	reportRepo report.ReportRepository,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	squadRepo squad.SquadRepository,
	mailer Mailer,
	notifications notification.NotificationService,
	logger *slog.Logger,
) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository:     reportRepo,
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		SquadRepository:      squadRepo,
		mailer:               mailer,
		notifications:        notifications,
		logger:               logger,
		now:                  time.Now,
	}
}

// Create implements report.ReportService.
func (r *ReportServiceImpl) Create(ctx context.Context, req report.CreateReportRequest) (report.Report, error) {
	if err := req.Validate(); err != nil {
		return report.Report{}, err
	}

	format := report.Format(req.Format)
	if format == "" {
		format = report.FormatCSV
	}

	now := r.now().UTC()
	rep := report.Report{
		ID:             uuid.NewString(),
		Name:           req.Name,
		SquadID:        req.SquadID,
		Schedule:       report.Schedule(req.Schedule),
		Format:         format,
		Recipients:     req.Recipients,
		FilterUsers:    req.Users,
		FilterStatuses: req.ComplianceStatuses,
		Enabled:        true,
		Status:         report.StatusDraft,
		NextRunAt:      NextRunTime(report.Schedule(req.Schedule), now),
		CreatedBy:      req.CreatedBy,
	}

	created, err := r.ReportRepository.Create(ctx, rep)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to create report: %w", err)
	}
	return created, nil
}

// GetAll implements report.ReportService.
func (r *ReportServiceImpl) GetAll(ctx context.Context) ([]report.Report, error) {
	return r.ReportRepository.GetAll(ctx)
}

// GetByID implements report.ReportService.
func (r *ReportServiceImpl) GetByID(ctx context.Context, id string) (report.Report, error) {
	return r.ReportRepository.GetByID(ctx, id)
}

// Update implements report.ReportService.
func (r *ReportServiceImpl) Update(ctx context.Context, req report.UpdateReportRequest) (report.Report, error) {
	if err := req.Validate(); err != nil {
		return report.Report{}, err
	}

	rep, err := r.ReportRepository.GetByID(ctx, req.ID)
	if err != nil {
		return report.Report{}, err
	}

	if req.Name != nil {
		rep.Name = *req.Name
	}
	if req.Schedule != nil && report.Schedule(*req.Schedule) != rep.Schedule {
		rep.Schedule = report.Schedule(*req.Schedule)
		rep.NextRunAt = NextRunTime(rep.Schedule, r.now().UTC())
	}
	if req.Format != nil {
		rep.Format = report.Format(*req.Format)
	}
	if req.Recipients != nil {
		rep.Recipients = req.Recipients
	}
	if req.Users != nil {
		rep.FilterUsers = req.Users
	}
	if req.ComplianceStatuses != nil {
		rep.FilterStatuses = req.ComplianceStatuses
	}
	if req.Status != nil {
		rep.Status = report.Status(*req.Status)
	}
	if req.Enabled != nil {
		rep.Enabled = *req.Enabled
	}

	if err := r.ReportRepository.Update(ctx, rep); err != nil {
		return report.Report{}, fmt.Errorf("failed to update report: %w", err)
	}
	return rep, nil
}

// Delete implements report.ReportService.
func (r *ReportServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := r.ReportRepository.GetByID(ctx, id); err != nil {
		return err
	}
	return r.ReportRepository.Delete(ctx, id)
}

// Generate implements report.ReportService. The computed metrics are
// stored on the definition and the report moves to generated.
func (r *ReportServiceImpl) Generate(ctx context.Context, id string) (report.Metrics, error) {
	rep, err := r.ReportRepository.GetByID(ctx, id)
	if err != nil {
		return report.Metrics{}, err
	}

	metrics, err := r.generate(ctx, rep)
	if err != nil {
		return report.Metrics{}, err
	}

	now := r.now().UTC()
	rep.Metrics = &metrics
	rep.GeneratedAt = &now
	rep.Status = report.StatusGenerated
	if err := r.ReportRepository.Update(ctx, rep); err != nil {
		return report.Metrics{}, fmt.Errorf("failed to store generated report: %w", err)
	}
	return metrics, nil
}

func (r *ReportServiceImpl) generate(ctx context.Context, rep report.Report) (report.Metrics, error) {
	now := r.now().UTC()
	from := periodStart(rep.Schedule, now)

	squadID := ""
	if rep.SquadID != nil {
		squadID = *rep.SquadID
	}

	logs, err := r.AttendanceRepository.ListForRange(ctx, from, now, squadID)
	if err != nil {
		return report.Metrics{}, fmt.Errorf("failed to load attendance for report: %w", err)
	}
	logs = applyFilters(logs, rep.FilterUsers, rep.FilterStatuses)

	squads, err := r.SquadRepository.GetAll(ctx)
	if err != nil {
		return report.Metrics{}, fmt.Errorf("failed to load squads for report: %w", err)
	}

	return ComputeMetrics(from, now, logs, squads), nil
}

// applyFilters keeps only the rows matching the report's configured
// user and compliance-status filters. An empty filter keeps everything.
func applyFilters(logs []attendance.AttendanceLog, userIDs, statuses []string) []attendance.AttendanceLog {
	if len(userIDs) == 0 && len(statuses) == 0 {
		return logs
	}

	users := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		users[id] = struct{}{}
	}
	wanted := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		wanted[s] = struct{}{}
	}

	kept := logs[:0:0]
	for _, log := range logs {
		if len(users) > 0 {
			if _, ok := users[log.UserID]; !ok {
				continue
			}
		}
		if len(wanted) > 0 {
			if _, ok := wanted[string(log.ComplianceStatus)]; !ok {
				continue
			}
		}
		kept = append(kept, log)
	}
	return kept
}

// Export implements report.ReportService.
func (r *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest) ([]byte, string, error) {
	from, to := PeriodRange(req.Period, r.now().UTC())

	logs, err := r.AttendanceRepository.ListForRange(ctx, from, to, req.SquadID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load attendance for export: %w", err)
	}

	if req.Format == string(report.FormatJSON) {
		payload, err := renderJSON(logs)
		if err != nil {
			return nil, "", fmt.Errorf("failed to render json export: %w", err)
		}
		return payload, "application/json", nil
	}

	payload, err := renderCSV(logs)
	if err != nil {
		return nil, "", err
	}
	return payload, "text/csv", nil
}

// RunScheduled implements report.ReportService. Each due report is
// generated and delivered independently so one failure cannot starve
// the rest of the queue.
func (r *ReportServiceImpl) RunScheduled(ctx context.Context) error {
	now := r.now().UTC()

	due, err := r.ReportRepository.GetDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to load due reports: %w", err)
	}

	for _, rep := range due {
		if err := r.runOne(ctx, rep, now); err != nil {
			r.logger.Error("scheduled report failed",
				slog.String("report_id", rep.ID),
				slog.String("report_name", rep.Name),
				slog.Any("error", err),
			)
		}
	}
	return nil
}

func (r *ReportServiceImpl) runOne(ctx context.Context, rep report.Report, now time.Time) error {
	metrics, err := r.generate(ctx, rep)
	if err != nil {
		return err
	}

	generatedAt := now
	rep.Metrics = &metrics
	rep.GeneratedAt = &generatedAt
	rep.Status = report.StatusGenerated

	if len(rep.Recipients) > 0 {
		subject := fmt.Sprintf("Attendance report: %s", rep.Name)
		if err := r.mailer.SendReport(ctx, rep.Recipients, subject, metrics); err != nil {
			r.logger.Error("report email delivery failed",
				slog.String("report_id", rep.ID),
				slog.Any("error", err),
			)
		}
		r.notifyRecipients(ctx, rep, metrics)
		rep.Status = report.StatusSent
	}

	for _, score := range metrics.TopSquads {
		if err := r.SquadRepository.UpdateComplianceScore(ctx, score.SquadID, score.ComplianceRate); err != nil {
			r.logger.Warn("failed to persist squad compliance score",
				slog.String("squad_id", score.SquadID),
				slog.Any("error", err),
			)
		}
	}

	lastRun := now
	rep.LastRunAt = &lastRun
	rep.NextRunAt = NextRunTime(rep.Schedule, now)
	if err := r.ReportRepository.Update(ctx, rep); err != nil {
		return fmt.Errorf("failed to advance report schedule: %w", err)
	}
	return nil
}

// notifyRecipients mirrors the email delivery with in-app
// notifications. Recipients without an account are skipped.
func (r *ReportServiceImpl) notifyRecipients(ctx context.Context, rep report.Report, metrics report.Metrics) {
	link := "/reports/" + rep.ID
	for _, email := range rep.Recipients {
		u, err := r.UserRepository.GetByEmail(ctx, email)
		if err != nil {
			r.logger.Warn("report recipient has no account",
				slog.String("report_id", rep.ID),
				slog.String("email", email),
			)
			continue
		}
		r.notifications.Enqueue(notification.CreateNotificationRequest{
			UserID:  u.ID,
			Type:    notification.TypeReport,
			Title:   "Report generated",
			Message: fmt.Sprintf("Report %q finished with a compliance rate of %.2f%%", rep.Name, metrics.ComplianceRate),
			Link:    &link,
		})
	}
}

// periodStart derives the reporting window length from the schedule.
func periodStart(schedule report.Schedule, now time.Time) time.Time {
	switch schedule {
	case report.ScheduleDaily:
		return now.AddDate(0, 0, -1)
	case report.ScheduleWeekly:
		return now.AddDate(0, 0, -7)
	case report.ScheduleMonthly:
		return now.AddDate(0, -1, 0)
	case report.ScheduleSprint:
		return now.AddDate(0, 0, -14)
	}
	return now.AddDate(0, 0, -7)
}
