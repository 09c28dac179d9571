package attendance

import (
	"time"

	"github.com/rylimitless/asamp-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	UserID   string  `json:"-"`
	Time     *string `json:"time"`
	Location *string `json:"location"`
	WorkMode string  `json:"work_mode"`
	Notes    *string `json:"notes"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Time != nil {
		if _, ok := validator.IsValidDateTime(*r.Time); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "time",
				Message: "time must be a valid RFC3339 timestamp",
			})
		}
	}
	if !validator.IsEmpty(r.WorkMode) && !validator.IsInSlice(r.WorkMode, ValidWorkModes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_mode",
			Message: "work_mode must be one of: remote, office, client-site, ooo",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	UserID string  `json:"-"`
	Time   *string `json:"time"`
	Notes  *string `json:"notes"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Time != nil {
		if _, ok := validator.IsValidDateTime(*r.Time); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "time",
				Message: "time must be a valid RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateAttendanceRequest is the admin correction path. Derived
// compliance fields are intentionally absent: they are recomputed
// from the corrected times.
type UpdateAttendanceRequest struct {
	ID           string  `json:"-"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Location     *string `json:"location"`
	WorkMode     *string `json:"work_mode"`
	Notes        *string `json:"notes"`
	Verified     *bool   `json:"verified"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.CheckInTime != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckInTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time must be a valid RFC3339 timestamp",
			})
		}
	}
	if r.CheckOutTime != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckOutTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_time",
				Message: "check_out_time must be a valid RFC3339 timestamp",
			})
		}
	}
	if r.WorkMode != nil && !validator.IsInSlice(*r.WorkMode, ValidWorkModes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_mode",
			Message: "work_mode must be one of: remote, office, client-site, ooo",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListFilter narrows attendance queries. Zero values mean "no filter".
type ListFilter struct {
	UserID           string
	SquadID          string
	SprintID         string
	ComplianceStatus string
	DateFrom         *time.Time
	DateTo           *time.Time
	Page             int
	PerPage          int
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

type AttendanceResponse struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	UserName             *string    `json:"user_name,omitempty"`
	SquadID              *string    `json:"squad_id,omitempty"`
	SquadName            *string    `json:"squad_name,omitempty"`
	SprintID             *string    `json:"sprint_id,omitempty"`
	Date                 string     `json:"date"`
	CheckInTime          *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime         *time.Time `json:"check_out_time,omitempty"`
	TotalHours           *float64   `json:"total_hours,omitempty"`
	ComplianceStatus     string     `json:"compliance_status"`
	ComplianceNotes      *string    `json:"compliance_notes,omitempty"`
	LateMinutes          int        `json:"late_minutes"`
	EarlyCheckoutMinutes int        `json:"early_checkout_minutes"`
	Location             *string    `json:"location,omitempty"`
	WorkMode             string     `json:"work_mode"`
	Notes                *string    `json:"notes,omitempty"`
	Verified             bool       `json:"verified"`
}

func ToResponse(log AttendanceLog) AttendanceResponse {
	return AttendanceResponse{
		ID:                   log.ID,
		UserID:               log.UserID,
		UserName:             log.UserName,
		SquadID:              log.SquadID,
		SquadName:            log.SquadName,
		SprintID:             log.SprintID,
		Date:                 log.Date.Format("2006-01-02"),
		CheckInTime:          log.CheckInTime,
		CheckOutTime:         log.CheckOutTime,
		TotalHours:           log.TotalHours,
		ComplianceStatus:     string(log.ComplianceStatus),
		ComplianceNotes:      log.ComplianceNotes,
		LateMinutes:          log.LateMinutes,
		EarlyCheckoutMinutes: log.EarlyCheckoutMinutes,
		Location:             log.Location,
		WorkMode:             string(log.WorkMode),
		Notes:                log.Notes,
		Verified:             log.Verified,
	}
}

type ListResponse struct {
	Logs       []AttendanceResponse `json:"logs"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PerPage    int                  `json:"per_page"`
	TotalPages int                  `json:"total_pages"`
}
