package report

import (
	"time"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/validator"
)

type CreateReportRequest struct {
	Name               string   `json:"name"`
	SquadID            *string  `json:"squad_id"`
	Schedule           string   `json:"schedule"`
	Format             string   `json:"format"`
	Recipients         []string `json:"recipients"`
	Users              []string `json:"users"`
	ComplianceStatuses []string `json:"compliance_statuses"`
	CreatedBy          string   `json:"-"`
}

func (r *CreateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if !validator.IsInSlice(r.Schedule, ValidSchedules()) {
		errs = append(errs, validator.ValidationError{
			Field:   "schedule",
			Message: "schedule must be one of: daily, weekly, monthly, sprint",
		})
	}
	if !validator.IsEmpty(r.Format) && r.Format != string(FormatCSV) && r.Format != string(FormatJSON) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be csv or json",
		})
	}
	for _, email := range r.Recipients {
		if !validator.IsValidEmail(email) {
			errs = append(errs, validator.ValidationError{
				Field:   "recipients",
				Message: "recipients must be valid email addresses",
			})
			break
		}
	}
	for _, status := range r.ComplianceStatuses {
		if !validator.IsInSlice(status, attendance.ValidComplianceStatuses()) {
			errs = append(errs, validator.ValidationError{
				Field:   "compliance_statuses",
				Message: "compliance_statuses contains an unknown status",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateReportRequest struct {
	ID                 string   `json:"-"`
	Name               *string  `json:"name"`
	Schedule           *string  `json:"schedule"`
	Format             *string  `json:"format"`
	Recipients         []string `json:"recipients"`
	Users              []string `json:"users"`
	ComplianceStatuses []string `json:"compliance_statuses"`
	Status             *string  `json:"status"`
	Enabled            *bool    `json:"enabled"`
}

func (r *UpdateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Schedule != nil && !validator.IsInSlice(*r.Schedule, ValidSchedules()) {
		errs = append(errs, validator.ValidationError{
			Field:   "schedule",
			Message: "schedule must be one of: daily, weekly, monthly, sprint",
		})
	}
	if r.Format != nil && *r.Format != string(FormatCSV) && *r.Format != string(FormatJSON) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be csv or json",
		})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, ValidStatuses()) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: draft, generated, sent, archived",
		})
	}
	for _, status := range r.ComplianceStatuses {
		if !validator.IsInSlice(status, attendance.ValidComplianceStatuses()) {
			errs = append(errs, validator.ValidationError{
				Field:   "compliance_statuses",
				Message: "compliance_statuses contains an unknown status",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportRequest selects a slice of attendance data for download.
// Period "today", "week" and "month" take precedence; an empty period
// defaults to the trailing 30 days.
type ExportRequest struct {
	Period  string `json:"period"`
	SquadID string `json:"squad_id"`
	Format  string `json:"format"`
}

type ReportResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	SquadID            *string    `json:"squad_id,omitempty"`
	Schedule           string     `json:"schedule"`
	Format             string     `json:"format"`
	Recipients         []string   `json:"recipients"`
	Users              []string   `json:"users,omitempty"`
	ComplianceStatuses []string   `json:"compliance_statuses,omitempty"`
	Enabled            bool       `json:"enabled"`
	Status             string     `json:"status"`
	Metrics            *Metrics   `json:"metrics,omitempty"`
	GeneratedAt        *time.Time `json:"generated_at,omitempty"`
	LastRunAt          *time.Time `json:"last_run_at,omitempty"`
	NextRunAt          time.Time  `json:"next_run_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

func ToResponse(r Report) ReportResponse {
	return ReportResponse{
		ID:                 r.ID,
		Name:               r.Name,
		SquadID:            r.SquadID,
		Schedule:           string(r.Schedule),
		Format:             string(r.Format),
		Recipients:         r.Recipients,
		Users:              r.FilterUsers,
		ComplianceStatuses: r.FilterStatuses,
		Enabled:            r.Enabled,
		Status:             string(r.Status),
		Metrics:            r.Metrics,
		GeneratedAt:        r.GeneratedAt,
		LastRunAt:          r.LastRunAt,
		NextRunAt:          r.NextRunAt,
		CreatedAt:          r.CreatedAt,
	}
}
