package cron

import (
	"context"
	"time"

	"github.com/rylimitless/asamp-backend-go/internal/domain/report"
)

// ReportJobs drives scheduled report generation.
type ReportJobs struct {
	reportSvc report.ReportService
}

func NewReportJobs(reportSvc report.ReportService) *ReportJobs {
	return &ReportJobs{reportSvc: reportSvc}
}

func (j *ReportJobs) RegisterJobs(scheduler *Scheduler, every time.Duration) {
	scheduler.AddJob("scheduled_reports", every, j.RunScheduledReports)
}

func (j *ReportJobs) RunScheduledReports(ctx context.Context) error {
	return j.reportSvc.RunScheduled(ctx)
}
