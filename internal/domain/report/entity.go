package report

import "time"

type Schedule string

const (
	ScheduleDaily   Schedule = "daily"
	ScheduleWeekly  Schedule = "weekly"
	ScheduleMonthly Schedule = "monthly"
	ScheduleSprint  Schedule = "sprint"
)

func ValidSchedules() []string {
	return []string{
		string(ScheduleDaily),
		string(ScheduleWeekly),
		string(ScheduleMonthly),
		string(ScheduleSprint),
	}
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Status tracks a report through its lifecycle. New definitions start
// as drafts, move to generated once metrics exist, to sent once
// delivered, and archived reports are excluded from the cron sweep.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusGenerated Status = "generated"
	StatusSent      Status = "sent"
	StatusArchived  Status = "archived"
)

func ValidStatuses() []string {
	return []string{
		string(StatusDraft),
		string(StatusGenerated),
		string(StatusSent),
		string(StatusArchived),
	}
}

// Report is a saved, scheduled report definition. NextRunAt drives the
// cron sweep: a report runs when NextRunAt is in the past. FilterUsers
// and FilterStatuses narrow the attendance rows the report covers.
type Report struct {
	ID             string
	Name           string
	SquadID        *string
	Schedule       Schedule
	Format         Format
	Recipients     []string
	FilterUsers    []string
	FilterStatuses []string
	Enabled        bool
	Status         Status
	Metrics        *Metrics
	GeneratedAt    *time.Time
	LastRunAt      *time.Time
	NextRunAt      time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Metrics is the computed body of a generated report.
type Metrics struct {
	PeriodStart         time.Time      `json:"period_start"`
	PeriodEnd           time.Time      `json:"period_end"`
	TotalMembers        int            `json:"total_members"`
	TotalAttendanceLogs int            `json:"total_attendance_logs"`
	ComplianceRate      float64        `json:"compliance_rate"`
	AverageWorkingHours float64        `json:"average_working_hours"`
	AbsenceDays         int            `json:"absence_days"`
	StatusBreakdown     map[string]int `json:"status_breakdown"`
	TopSquads           []SquadScore   `json:"top_squads"`
}

// SquadScore is one squad's compliance standing within a report.
type SquadScore struct {
	SquadID        string  `json:"squad_id"`
	SquadName      string  `json:"squad_name"`
	ComplianceRate float64 `json:"compliance_rate"`
	LogCount       int     `json:"log_count"`
}
