package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance log not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in for this date")
	ErrNotCheckedIn       = errors.New("no open check-in found for this date")
	ErrAlreadyCheckedOut  = errors.New("already checked out for this date")
	ErrNotLogOwner        = errors.New("attendance log belongs to another user")
)
