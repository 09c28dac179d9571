package leave

import "time"

// Status tracks a leave request through the two-stage approval chain:
// squad lead first, then admin.
type Status string

const (
	StatusPendingSquadLead  Status = "pending-squad-lead"
	StatusApprovedSquadLead Status = "approved-squad-lead"
	StatusRejectedSquadLead Status = "rejected-squad-lead"
	StatusPendingAdmin      Status = "pending-admin"
	StatusApproved          Status = "approved"
	StatusRejectedAdmin     Status = "rejected-admin"
)

func ValidStatuses() []string {
	return []string{
		string(StatusPendingSquadLead),
		string(StatusApprovedSquadLead),
		string(StatusRejectedSquadLead),
		string(StatusPendingAdmin),
		string(StatusApproved),
		string(StatusRejectedAdmin),
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejectedSquadLead, StatusApproved, StatusRejectedAdmin:
		return true
	}
	return false
}

type LeaveType string

const (
	TypeVacation LeaveType = "vacation"
	TypeSick     LeaveType = "sick"
	TypePersonal LeaveType = "personal"
	TypeOther    LeaveType = "other"
)

func ValidLeaveTypes() []string {
	return []string{
		string(TypeVacation),
		string(TypeSick),
		string(TypePersonal),
		string(TypeOther),
	}
}

type LeaveRequest struct {
	ID        string
	UserID    string
	SquadID   *string
	Type      LeaveType
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	Status    Status

	SquadLeadApproverID *string
	SquadLeadActionAt   *time.Time
	SquadLeadComment    *string
	AdminApproverID     *string
	AdminActionAt       *time.Time
	AdminComment        *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	UserName  *string
	SquadName *string
}
