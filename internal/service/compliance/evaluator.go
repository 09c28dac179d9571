package compliance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
)

// Result is the evaluated compliance state of one attendance log.
type Result struct {
	TotalHours           *float64
	Status               attendance.ComplianceStatus
	Notes                string
	LateMinutes          int
	EarlyCheckoutMinutes int
}

// Evaluate derives the compliance fields for one attendance log from
// its raw check-in and check-out times and the effective policy. It is
// a pure function of its inputs: no clock reads, no I/O.
//
// Status precedence when several rules are broken at once:
// late check-in, then early checkout, then insufficient hours. The
// notes still record every violation.
func Evaluate(date time.Time, checkIn, checkOut *time.Time, p Policy) (Result, error) {
	if checkIn == nil {
		zero := 0.0
		return Result{TotalHours: &zero, Status: attendance.StatusPending}, nil
	}

	stdIn, err := atTimeOfDay(date, p.StandardCheckInTime, checkIn.Location())
	if err != nil {
		return Result{}, fmt.Errorf("parse standard check-in time: %w", err)
	}
	lateMinutes := roundedMinutes(checkIn.Sub(stdIn))

	if checkOut == nil {
		zero := 0.0
		return Result{
			TotalHours:  &zero,
			Status:      attendance.StatusMissingCheckout,
			Notes:       "Pending check-out",
			LateMinutes: lateMinutes,
		}, nil
	}

	stdOut, err := atTimeOfDay(date, p.StandardCheckOutTime, checkOut.Location())
	if err != nil {
		return Result{}, fmt.Errorf("parse standard check-out time: %w", err)
	}
	earlyMinutes := roundedMinutes(stdOut.Sub(*checkOut))

	// Worked hours rounded to the nearest quarter hour.
	totalHours := math.Round(checkOut.Sub(*checkIn).Hours()*4) / 4

	var violations []string
	status := attendance.StatusCompliant

	if lateMinutes > p.LateThresholdMinutes {
		status = attendance.StatusLateCheckin
		violations = append(violations, fmt.Sprintf("Late by %d minutes", lateMinutes))
	}
	if earlyMinutes > p.EarlyCheckoutThresholdMinutes {
		if status == attendance.StatusCompliant {
			status = attendance.StatusEarlyCheckout
		}
		violations = append(violations, fmt.Sprintf("Early checkout by %d minutes", earlyMinutes))
	}
	if totalHours < p.MinimumWorkHours {
		if status == attendance.StatusCompliant {
			status = attendance.StatusInsufficientHours
		}
		violations = append(violations, fmt.Sprintf("Insufficient hours: %.2fh (minimum: %gh)", totalHours, p.MinimumWorkHours))
	}

	notes := strings.Join(violations, "; ")
	if status == attendance.StatusCompliant {
		notes = fmt.Sprintf("Total hours: %.2fh - All requirements met", totalHours)
	}

	return Result{
		TotalHours:           &totalHours,
		Status:               status,
		Notes:                notes,
		LateMinutes:          lateMinutes,
		EarlyCheckoutMinutes: earlyMinutes,
	}, nil
}

// atTimeOfDay anchors an "HH:MM" policy time on the log's calendar
// date in the given location.
func atTimeOfDay(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// roundedMinutes converts a duration to whole minutes, rounding to the
// nearest and clamping negatives to zero.
func roundedMinutes(d time.Duration) int {
	m := int(math.Round(d.Minutes()))
	if m < 0 {
		return 0
	}
	return m
}
