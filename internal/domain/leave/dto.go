package leave

import (
	"time"

	"github.com/rylimitless/asamp-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	UserID    string  `json:"-"`
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    string  `json:"reason"`
	SquadID   *string `json:"-"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	} else if !validator.IsInSlice(r.Type, ValidLeaveTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: vacation, sick, personal, other",
		})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateStatusRequest moves a leave request along the approval chain.
// ApproverID and the action timestamp are stamped server side from the
// authenticated caller, never from the request body.
type UpdateStatusRequest struct {
	ID         string  `json:"-"`
	ApproverID string  `json:"-"`
	Status     string  `json:"status"`
	Comment    *string `json:"comment"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is required",
		})
	} else if !validator.IsInSlice(r.Status, ValidStatuses()) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is not a recognized leave status",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	UserID  string
	SquadID string
	Status  string
	Page    int
	PerPage int
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
}

func (f *ListFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

type LeaveResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	UserName  *string `json:"user_name,omitempty"`
	SquadID   *string `json:"squad_id,omitempty"`
	SquadName *string `json:"squad_name,omitempty"`
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`

	SquadLeadApproverID *string    `json:"squad_lead_approver_id,omitempty"`
	SquadLeadActionAt   *time.Time `json:"squad_lead_action_at,omitempty"`
	SquadLeadComment    *string    `json:"squad_lead_comment,omitempty"`
	AdminApproverID     *string    `json:"admin_approver_id,omitempty"`
	AdminActionAt       *time.Time `json:"admin_action_at,omitempty"`
	AdminComment        *string    `json:"admin_comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func ToResponse(lr LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:                  lr.ID,
		UserID:              lr.UserID,
		UserName:            lr.UserName,
		SquadID:             lr.SquadID,
		SquadName:           lr.SquadName,
		Type:                string(lr.Type),
		StartDate:           lr.StartDate.Format("2006-01-02"),
		EndDate:             lr.EndDate.Format("2006-01-02"),
		Reason:              lr.Reason,
		Status:              string(lr.Status),
		SquadLeadApproverID: lr.SquadLeadApproverID,
		SquadLeadActionAt:   lr.SquadLeadActionAt,
		SquadLeadComment:    lr.SquadLeadComment,
		AdminApproverID:     lr.AdminApproverID,
		AdminActionAt:       lr.AdminActionAt,
		AdminComment:        lr.AdminComment,
		CreatedAt:           lr.CreatedAt,
	}
}

type ListResponse struct {
	Requests   []LeaveResponse `json:"requests"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}
