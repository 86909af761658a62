package certificates

import (
	"campus-connect/event-portal/event-portal-backend/internal/registrations"
)

// DefaultMinimumPercentage applies when an event defines no attendance policy.
const DefaultMinimumPercentage = 75.0

// Eligibility is the outcome of checking a registration's attendance against
// an event's minimum-percentage policy. The boundary is inclusive: a
// percentage equal to the requirement passes.
type Eligibility struct {
	Eligible   bool    `json:"eligible"`
	Percentage float64 `json:"percentage"`
	Required   float64 `json:"required"`
	Reason     string  `json:"reason,omitempty"`
}

// EvaluateEligibility decides whether a certificate may be generated. Pure
// function, no side effects.
func EvaluateEligibility(reg *registrations.Registration, event *registrations.Event) Eligibility {
	if reg == nil || reg.Attendance == nil {
		return Eligibility{Eligible: false, Reason: "no attendance record"}
	}

	required := requiredPercentage(event)
	return Eligibility{
		Eligible:   reg.Attendance.Percentage >= required,
		Percentage: reg.Attendance.Percentage,
		Required:   required,
	}
}

// requiredPercentage resolves the threshold with the precedence the legacy
// portal used: criteria-nested value, then strategy-level, then event-level,
// then the default. First defined value wins.
func requiredPercentage(event *registrations.Event) float64 {
	if event == nil {
		return DefaultMinimumPercentage
	}
	if s := event.AttendanceStrategy; s != nil {
		if s.Criteria != nil && s.Criteria.MinimumPercentage != nil {
			return *s.Criteria.MinimumPercentage
		}
		if s.MinimumPercentage != nil {
			return *s.MinimumPercentage
		}
	}
	if event.MinimumPercentage != nil {
		return *event.MinimumPercentage
	}
	return DefaultMinimumPercentage
}
