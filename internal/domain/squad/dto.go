package squad

import (
	"github.com/rylimitless/asamp-backend-go/internal/pkg/validator"
)

type CreateSquadRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	LeadID      *string  `json:"lead_id"`
	Project     *string  `json:"project"`
	TimeZone    string   `json:"time_zone"`
	Workdays    []string `json:"workdays"`

	MinimumWorkHours              *float64 `json:"minimum_work_hours"`
	StandardCheckInTime           *string  `json:"standard_check_in_time"`
	StandardCheckOutTime          *string  `json:"standard_check_out_time"`
	LateThresholdMinutes          *int     `json:"late_threshold_minutes"`
	EarlyCheckoutThresholdMinutes *int     `json:"early_checkout_threshold_minutes"`
}

func (r *CreateSquadRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	errs = append(errs, validateRules(r.MinimumWorkHours, r.StandardCheckInTime, r.StandardCheckOutTime, r.LateThresholdMinutes, r.EarlyCheckoutThresholdMinutes)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateSquadRequest struct {
	ID          string   `json:"-"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	LeadID      *string  `json:"lead_id"`
	Project     *string  `json:"project"`
	TimeZone    *string  `json:"time_zone"`
	Workdays    []string `json:"workdays"`

	MinimumWorkHours              *float64 `json:"minimum_work_hours"`
	StandardCheckInTime           *string  `json:"standard_check_in_time"`
	StandardCheckOutTime          *string  `json:"standard_check_out_time"`
	LateThresholdMinutes          *int     `json:"late_threshold_minutes"`
	EarlyCheckoutThresholdMinutes *int     `json:"early_checkout_threshold_minutes"`
}

func (r *UpdateSquadRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	errs = append(errs, validateRules(r.MinimumWorkHours, r.StandardCheckInTime, r.StandardCheckOutTime, r.LateThresholdMinutes, r.EarlyCheckoutThresholdMinutes)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRules(minHours *float64, checkIn, checkOut *string, lateMins, earlyMins *int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if minHours != nil && (*minHours <= 0 || *minHours > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "minimum_work_hours",
			Message: "minimum_work_hours must be between 0 and 24",
		})
	}
	if checkIn != nil && !validator.IsValidTimeOfDay(*checkIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "standard_check_in_time",
			Message: "standard_check_in_time must be in HH:MM format",
		})
	}
	if checkOut != nil && !validator.IsValidTimeOfDay(*checkOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "standard_check_out_time",
			Message: "standard_check_out_time must be in HH:MM format",
		})
	}
	if lateMins != nil && *lateMins < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "late_threshold_minutes",
			Message: "late_threshold_minutes must not be negative",
		})
	}
	if earlyMins != nil && *earlyMins < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "early_checkout_threshold_minutes",
			Message: "early_checkout_threshold_minutes must not be negative",
		})
	}

	return errs
}

func ToResponse(sq Squad) SquadResponse {
	return SquadResponse{
		ID:                            sq.ID,
		Name:                          sq.Name,
		Description:                   sq.Description,
		LeadID:                        sq.LeadID,
		LeadName:                      sq.LeadName,
		Project:                       sq.Project,
		TimeZone:                      sq.TimeZone,
		Workdays:                      sq.Workdays,
		ComplianceScore:               sq.ComplianceScore,
		MinimumWorkHours:              sq.AttendanceRules.MinimumWorkHours,
		StandardCheckInTime:           sq.AttendanceRules.StandardCheckInTime,
		StandardCheckOutTime:          sq.AttendanceRules.StandardCheckOutTime,
		LateThresholdMinutes:          sq.AttendanceRules.LateThresholdMinutes,
		EarlyCheckoutThresholdMinutes: sq.AttendanceRules.EarlyCheckoutThresholdMinutes,
	}
}

type SquadResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     *string  `json:"description,omitempty"`
	LeadID          *string  `json:"lead_id,omitempty"`
	LeadName        *string  `json:"lead_name,omitempty"`
	Project         *string  `json:"project,omitempty"`
	TimeZone        string   `json:"time_zone"`
	Workdays        []string `json:"workdays"`
	ComplianceScore *float64 `json:"compliance_score,omitempty"`

	MinimumWorkHours              *float64 `json:"minimum_work_hours,omitempty"`
	StandardCheckInTime           *string  `json:"standard_check_in_time,omitempty"`
	StandardCheckOutTime          *string  `json:"standard_check_out_time,omitempty"`
	LateThresholdMinutes          *int     `json:"late_threshold_minutes,omitempty"`
	EarlyCheckoutThresholdMinutes *int     `json:"early_checkout_threshold_minutes,omitempty"`
}
