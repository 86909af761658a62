package certificates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campus-connect/event-portal/event-portal-backend/internal/registrations"
)

func fptr(v float64) *float64 { return &v }

func TestEvaluateEligibility_MeetsThreshold(t *testing.T) {
	reg := &registrations.Registration{
		Attendance: &registrations.Attendance{Percentage: 80},
	}
	event := &registrations.Event{MinimumPercentage: fptr(75)}

	result := EvaluateEligibility(reg, event)

	assert.True(t, result.Eligible)
	assert.Equal(t, 80.0, result.Percentage)
	assert.Equal(t, 75.0, result.Required)
}

func TestEvaluateEligibility_DefaultThreshold(t *testing.T) {
	reg := &registrations.Registration{
		Attendance: &registrations.Attendance{Percentage: 60},
	}
	event := &registrations.Event{}

	result := EvaluateEligibility(reg, event)

	assert.False(t, result.Eligible)
	assert.Equal(t, 60.0, result.Percentage)
	assert.Equal(t, DefaultMinimumPercentage, result.Required)
}

func TestEvaluateEligibility_BoundaryIsEligible(t *testing.T) {
	reg := &registrations.Registration{
		Attendance: &registrations.Attendance{Percentage: 75},
	}

	result := EvaluateEligibility(reg, &registrations.Event{MinimumPercentage: fptr(75)})

	assert.True(t, result.Eligible)
}

func TestEvaluateEligibility_NoAttendanceRecord(t *testing.T) {
	reg := &registrations.Registration{}

	result := EvaluateEligibility(reg, &registrations.Event{})

	assert.False(t, result.Eligible)
	assert.Equal(t, "no attendance record", result.Reason)
}

func TestRequiredPercentage_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		event    *registrations.Event
		expected float64
	}{
		{
			name: "criteria wins over all",
			event: &registrations.Event{
				AttendanceStrategy: &registrations.AttendanceStrategy{
					Criteria:          &registrations.AttendanceCriteria{MinimumPercentage: fptr(90)},
					MinimumPercentage: fptr(80),
				},
				MinimumPercentage: fptr(70),
			},
			expected: 90,
		},
		{
			name: "strategy level wins over event level",
			event: &registrations.Event{
				AttendanceStrategy: &registrations.AttendanceStrategy{MinimumPercentage: fptr(80)},
				MinimumPercentage:  fptr(70),
			},
			expected: 80,
		},
		{
			name:     "event level",
			event:    &registrations.Event{MinimumPercentage: fptr(70)},
			expected: 70,
		},
		{
			name:     "default",
			event:    &registrations.Event{},
			expected: 75,
		},
		{
			name:     "nil event",
			event:    nil,
			expected: 75,
		},
		{
			name: "zero threshold is still a defined value",
			event: &registrations.Event{
				AttendanceStrategy: &registrations.AttendanceStrategy{
					Criteria: &registrations.AttendanceCriteria{MinimumPercentage: fptr(0)},
				},
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, requiredPercentage(tt.event))
		})
	}
}
