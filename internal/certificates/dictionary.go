package certificates

import (
	"time"

	"go.uber.org/zap"

	"campus-connect/event-portal/event-portal-backend/internal/registrations"
)

// Dictionary maps normalized placeholder keys to display values. It is built
// fresh per certificate request and never persisted.
type Dictionary map[string]string

// Lookup returns the value for a normalized key, treating empty values as
// missing.
func (d Dictionary) Lookup(key string) (string, bool) {
	v, ok := d[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// fieldAliases maps each semantic field to every spelling a template author
// might use for it. Template authors are uncontrolled, so the builder inserts
// all aliases of a field with the same value to maximize match probability.
var fieldAliases = []struct {
	canonical string
	aliases   []string
}{
	{"name", []string{"name", "full_name", "fullname", "participant_name", "recipient_name", "student_name", "faculty_name"}},
	{"email", []string{"email", "email_id", "mail"}},
	{"phone", []string{"phone", "contact", "mobile", "phone_number", "contact_number"}},
	{"department", []string{"department", "dept", "branch"}},
	{"enrollment_no", []string{"enrollment", "enrollment_no", "enrollment_number", "roll_no", "roll_number"}},
	{"employee_id", []string{"employee_id", "emp_id", "staff_id"}},
	{"designation", []string{"designation", "post"}},
	{"event_name", []string{"event_name", "event", "event_title"}},
	{"event_type", []string{"event_type"}},
	{"event_date", []string{"date", "event_date"}},
	{"issue_date", []string{"issue_date", "certificate_date", "issued_on"}},
	{"registration_id", []string{"registration_id", "reg_id", "registration_no"}},
	{"team_name", []string{"team_name", "team"}},
	{"certificate_type", []string{"certificate_type"}},
}

// certificateDateLayout renders dates as "2 January 2006" in English,
// matching how issued certificates have always shown them.
const certificateDateLayout = "2 January 2006"

// BuildDictionary flattens a registration and event into the alias-expanded
// mapping used to resolve template placeholders. When the registration names
// no participant the dictionary is empty and a warning is logged; generation
// still proceeds and placeholders stay visible in the output.
func BuildDictionary(reg *registrations.Registration, event *registrations.Event, certificateType string, now time.Time, logger *zap.Logger) Dictionary {
	dict := Dictionary{}

	participant, _ := reg.Participant()
	if participant == nil {
		if logger != nil {
			logger.Warn("Registration has no participant record, certificate data dictionary is empty",
				zap.String("registration_id", reg.ID.String()))
		}
		return dict
	}

	values := map[string]string{
		"name":             participant.Name,
		"email":            participant.Email,
		"phone":            participant.Phone,
		"department":       participant.Department,
		"enrollment_no":    participant.EnrollmentNo,
		"employee_id":      participant.EmployeeID,
		"designation":      participant.Designation,
		"registration_id":  reg.ID.String(),
		"issue_date":       now.Format(certificateDateLayout),
		"certificate_type": certificateType,
	}

	if event != nil {
		values["event_name"] = event.Name
		values["event_type"] = event.EventType
		if !event.StartsAt.IsZero() {
			values["event_date"] = event.StartsAt.Format(certificateDateLayout)
		}
	}

	// Team name only applies to team registrations; individual registrations
	// may still carry a stale team record.
	if reg.RegistrationType == registrations.TypeTeam && reg.Team != nil {
		values["team_name"] = reg.Team.Name
	}

	for _, field := range fieldAliases {
		value := values[field.canonical]
		if value == "" {
			continue
		}
		for _, alias := range field.aliases {
			dict[NormalizeKey(alias)] = value
		}
	}

	return dict
}
