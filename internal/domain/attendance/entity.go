package attendance

import "time"

// ComplianceStatus is the evaluated state of an attendance log for
// one working day.
type ComplianceStatus string

const (
	StatusCompliant         ComplianceStatus = "compliant"
	StatusLateCheckin       ComplianceStatus = "late-checkin"
	StatusEarlyCheckout     ComplianceStatus = "early-checkout"
	StatusMissingCheckout   ComplianceStatus = "missing-checkout"
	StatusInsufficientHours ComplianceStatus = "insufficient-hours"
	StatusPending           ComplianceStatus = "pending"
)

// WorkMode indicates where the member worked that day.
type WorkMode string

const (
	WorkModeRemote     WorkMode = "remote"
	WorkModeOffice     WorkMode = "office"
	WorkModeClientSite WorkMode = "client-site"
	WorkModeOOO        WorkMode = "ooo"
)

func ValidComplianceStatuses() []string {
	return []string{
		string(StatusCompliant),
		string(StatusLateCheckin),
		string(StatusEarlyCheckout),
		string(StatusMissingCheckout),
		string(StatusInsufficientHours),
		string(StatusPending),
	}
}

func ValidWorkModes() []string {
	return []string{
		string(WorkModeRemote),
		string(WorkModeOffice),
		string(WorkModeClientSite),
		string(WorkModeOOO),
	}
}

// AttendanceLog is one member's attendance record for one date.
// TotalHours, ComplianceStatus, ComplianceNotes, LateMinutes and
// EarlyCheckoutMinutes are derived fields: they are recomputed from
// CheckInTime/CheckOutTime on every write and never accepted from
// client input.
type AttendanceLog struct {
	ID                   string
	UserID               string
	SquadID              *string
	SprintID             *string
	Date                 time.Time
	CheckInTime          *time.Time
	CheckOutTime         *time.Time
	TotalHours           *float64
	ComplianceStatus     ComplianceStatus
	ComplianceNotes      *string
	LateMinutes          int
	EarlyCheckoutMinutes int
	Location             *string
	WorkMode             WorkMode
	Notes                *string
	Verified             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// DTO
	UserName  *string
	SquadName *string
}
