package squad

import "time"

// AttendanceRules holds a squad's policy overrides. Every field is
// optional: a nil field falls back to the workspace default when the
// effective policy is resolved.
type AttendanceRules struct {
	MinimumWorkHours              *float64
	StandardCheckInTime           *string
	StandardCheckOutTime          *string
	LateThresholdMinutes          *int
	EarlyCheckoutThresholdMinutes *int
}

type Squad struct {
	ID              string
	Name            string
	Description     *string
	LeadID          *string
	Project         *string
	TimeZone        string
	Workdays        []string
	ActiveSprintID  *string
	AttendanceRules AttendanceRules
	ComplianceScore *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	LeadName *string
}
