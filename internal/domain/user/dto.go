package user

import "github.com/rylimitless/asamp-backend-go/internal/pkg/validator"

// UpdateUserRequest is the admin path for changing a member's role,
// squad assignment or active flag.
type UpdateUserRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	SquadID  *string `json:"squad_id"`
	IsActive *bool   `json:"is_active"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Role != nil && !validator.IsInSlice(*r.Role, ValidRoles()) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: admin, squadLead, member, viewer",
		})
	}
	if r.SquadID != nil && *r.SquadID != "" && !validator.IsValidUUID(*r.SquadID) {
		errs = append(errs, validator.ValidationError{
			Field:   "squad_id",
			Message: "squad_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	SquadID  *string `json:"squad_id,omitempty"`
	IsActive bool    `json:"is_active"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     string(u.Role),
		SquadID:  u.SquadID,
		IsActive: u.IsActive,
	}
}
