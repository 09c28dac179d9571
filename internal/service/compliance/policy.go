package compliance

import (
	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
)

// Policy is a fully resolved set of attendance rules. Unlike
// squad.AttendanceRules every field carries a concrete value.
type Policy struct {
	MinimumWorkHours              float64
	StandardCheckInTime           string
	StandardCheckOutTime          string
	LateThresholdMinutes          int
	EarlyCheckoutThresholdMinutes int
}

// DefaultPolicy returns the workspace-wide attendance rules applied
// when a squad defines no overrides.
func DefaultPolicy() Policy {
	return Policy{
		MinimumWorkHours:              8,
		StandardCheckInTime:           "09:00",
		StandardCheckOutTime:          "17:00",
		LateThresholdMinutes:          15,
		EarlyCheckoutThresholdMinutes: 30,
	}
}

// Resolve merges a squad's overrides over the defaults field by field.
// A nil override keeps the default, so a squad that customizes only
// its check-in time still inherits everything else.
func Resolve(defaults Policy, rules squad.AttendanceRules) Policy {
	p := defaults
	if rules.MinimumWorkHours != nil {
		p.MinimumWorkHours = *rules.MinimumWorkHours
	}
	if rules.StandardCheckInTime != nil {
		p.StandardCheckInTime = *rules.StandardCheckInTime
	}
	if rules.StandardCheckOutTime != nil {
		p.StandardCheckOutTime = *rules.StandardCheckOutTime
	}
	if rules.LateThresholdMinutes != nil {
		p.LateThresholdMinutes = *rules.LateThresholdMinutes
	}
	if rules.EarlyCheckoutThresholdMinutes != nil {
		p.EarlyCheckoutThresholdMinutes = *rules.EarlyCheckoutThresholdMinutes
	}
	return p
}
