package http

import (
	"log/slog"
	"net/http"

	"github.com/rylimitless/asamp-backend-go/internal/handler/http/response"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/cron"
)

// CronHandler exposes the background jobs as HTTP triggers for an
// external scheduler. The routes sit behind the cron secret.
type CronHandler interface {
	RunCheckoutReminders(w http.ResponseWriter, r *http.Request)
	RunScheduledReports(w http.ResponseWriter, r *http.Request)
}

type CronHandlerImpl struct {
	attendanceJobs *cron.AttendanceJobs
	reportJobs     *cron.ReportJobs
}

func NewCronHandler(attendanceJobs *cron.AttendanceJobs, reportJobs *cron.ReportJobs) CronHandler {
	return &CronHandlerImpl{
		attendanceJobs: attendanceJobs,
		reportJobs:     reportJobs,
	}
}

// RunCheckoutReminders implements CronHandler.
func (h *CronHandlerImpl) RunCheckoutReminders(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceJobs.SendCheckoutReminders(r.Context()); err != nil {
		slog.Error("RunCheckoutReminders error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checkout reminders sent", nil)
}

// RunScheduledReports implements CronHandler.
func (h *CronHandlerImpl) RunScheduledReports(w http.ResponseWriter, r *http.Request) {
	if err := h.reportJobs.RunScheduledReports(r.Context()); err != nil {
		slog.Error("RunScheduledReports error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Scheduled reports processed", nil)
}
