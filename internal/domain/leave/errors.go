package leave

import "errors"

var (
	ErrLeaveNotFound         = errors.New("leave request not found")
	ErrInvalidTransition     = errors.New("invalid leave status transition")
	ErrNotRequestApprover    = errors.New("you are not allowed to act on this leave request")
	ErrOverlappingLeave      = errors.New("an overlapping leave request already exists")
	ErrEndBeforeStart        = errors.New("end date is before start date")
	ErrCannotActOnOwnRequest = errors.New("cannot approve or reject your own leave request")
)
