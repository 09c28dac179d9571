package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailExists             = errors.New("email already registered")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrSquadLeadAccessRequired = errors.New("squad lead access required")
	ErrUserInactive            = errors.New("user account is inactive")
)
