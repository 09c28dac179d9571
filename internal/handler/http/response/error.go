package response

import (
	"errors"
	"net/http"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/domain/auth"
	"github.com/rylimitless/asamp-backend-go/internal/domain/leave"
	"github.com/rylimitless/asamp-backend-go/internal/domain/notification"
	"github.com/rylimitless/asamp-backend-go/internal/domain/report"
	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrOAuthStateMismatch):
		Unauthorized(w, "OAuth state mismatch")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrSquadLeadAccessRequired):
		Forbidden(w, "Squad lead access required")
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User account is inactive")

	// Squad domain errors
	case errors.Is(err, squad.ErrSquadNotFound):
		NotFound(w, "Squad not found")
	case errors.Is(err, squad.ErrNameExists):
		Conflict(w, "Squad name already exists")
	case errors.Is(err, squad.ErrNotSquadLead):
		Forbidden(w, err.Error())
	case errors.Is(err, squad.ErrUserHasNoSquad):
		BadRequest(w, "User is not assigned to any squad", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance log not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in for this date")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out for this date")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No open check-in found for this date", nil)
	case errors.Is(err, attendance.ErrNotLogOwner):
		Forbidden(w, "Attendance log belongs to another user")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrNotRequestApprover):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrCannotActOnOwnRequest):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, "An overlapping leave request already exists")
	case errors.Is(err, leave.ErrEndBeforeStart):
		BadRequest(w, "End date is before start date", nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrNotRecipient):
		Forbidden(w, "Notification belongs to another user")

	// Report domain errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Report not found")
	case errors.Is(err, report.ErrInvalidSchedule):
		BadRequest(w, "Invalid report schedule", nil)
	case errors.Is(err, report.ErrInvalidPeriod):
		BadRequest(w, "Invalid export period", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
