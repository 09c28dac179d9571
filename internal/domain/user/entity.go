package user

import "time"

// Role is the access role of a user within the workspace.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleSquadLead Role = "squadLead"
	RoleMember    Role = "member"
	RoleViewer    Role = "viewer"
)

// ValidRoles returns all assignable roles.
func ValidRoles() []string {
	return []string{
		string(RoleAdmin), string(RoleSquadLead),
		string(RoleMember), string(RoleViewer),
	}
}

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	GoogleID     *string
	Role         Role
	SquadID      *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
