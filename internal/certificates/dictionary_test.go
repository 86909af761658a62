package certificates

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"campus-connect/event-portal/event-portal-backend/internal/registrations"
)

func testRegistration() *registrations.Registration {
	return &registrations.Registration{
		ID:               uuid.MustParse("3e5b8f5a-7a3e-4e61-9df0-2d3c7b8a9f10"),
		RegistrationType: registrations.TypeIndividual,
		Student: &registrations.Participant{
			Name:         "Asha Verma",
			Email:        "asha@example.edu",
			Phone:        "9876543210",
			Department:   "Computer Science",
			EnrollmentNo: "EN2024001",
		},
		Attendance: &registrations.Attendance{Percentage: 100},
	}
}

func testEvent() *registrations.Event {
	return &registrations.Event{
		Name:      "Tech Symposium",
		EventType: "workshop",
		StartsAt:  time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildDictionary_AliasesShareValue(t *testing.T) {
	now := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
	dict := BuildDictionary(testRegistration(), testEvent(), "participation", now, zap.NewNop())

	for _, alias := range []string{"name", "full_name", "fullname", "participant_name", "student_name", "faculty_name"} {
		v, ok := dict.Lookup(alias)
		assert.True(t, ok, "alias %q missing", alias)
		assert.Equal(t, "Asha Verma", v)
	}

	for _, alias := range []string{"phone", "contact", "mobile"} {
		v, _ := dict.Lookup(alias)
		assert.Equal(t, "9876543210", v, "alias %q", alias)
	}
}

func TestBuildDictionary_Dates(t *testing.T) {
	now := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
	dict := BuildDictionary(testRegistration(), testEvent(), "participation", now, zap.NewNop())

	issueDate, _ := dict.Lookup("issue_date")
	assert.Equal(t, "5 March 2025", issueDate)

	eventDate, _ := dict.Lookup("date")
	assert.Equal(t, "1 January 2025", eventDate)
	byAlias, _ := dict.Lookup("event_date")
	assert.Equal(t, eventDate, byAlias)
}

func TestBuildDictionary_TeamNameOnlyForTeamRegistrations(t *testing.T) {
	reg := testRegistration()
	reg.Team = &registrations.Team{Name: "Null Pointers"}

	dict := BuildDictionary(reg, testEvent(), "participation", time.Now(), zap.NewNop())
	_, ok := dict.Lookup("team_name")
	assert.False(t, ok, "individual registration must not expose team name")

	reg.RegistrationType = registrations.TypeTeam
	dict = BuildDictionary(reg, testEvent(), "participation", time.Now(), zap.NewNop())
	v, ok := dict.Lookup("team_name")
	assert.True(t, ok)
	assert.Equal(t, "Null Pointers", v)
	byAlias, _ := dict.Lookup("team")
	assert.Equal(t, v, byAlias)
}

func TestBuildDictionary_FacultyParticipant(t *testing.T) {
	reg := &registrations.Registration{
		ID:               uuid.New(),
		RegistrationType: registrations.TypeIndividual,
		Faculty: &registrations.Participant{
			Name:        "Dr. Rao",
			EmployeeID:  "EMP42",
			Designation: "Assistant Professor",
		},
	}

	dict := BuildDictionary(reg, testEvent(), "appreciation", time.Now(), zap.NewNop())

	v, _ := dict.Lookup("faculty_name")
	assert.Equal(t, "Dr. Rao", v)
	v, _ = dict.Lookup("emp_id")
	assert.Equal(t, "EMP42", v)
	v, _ = dict.Lookup("designation")
	assert.Equal(t, "Assistant Professor", v)

	// Student-only fields stay absent rather than empty.
	_, ok := dict.Lookup("enrollment_no")
	assert.False(t, ok)
}

func TestBuildDictionary_NoParticipant(t *testing.T) {
	reg := &registrations.Registration{ID: uuid.New()}

	dict := BuildDictionary(reg, testEvent(), "participation", time.Now(), zap.NewNop())

	assert.Empty(t, dict)
}
