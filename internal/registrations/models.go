package registrations

import (
	"time"

	"github.com/google/uuid"
)

type RegistrationType string

const (
	TypeIndividual RegistrationType = "individual"
	TypeTeam       RegistrationType = "team"
)

// Participant identifies the person a certificate is issued to. Student and
// faculty registrations share the shape; role-specific fields stay empty.
type Participant struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Department   string `json:"department"`
	EnrollmentNo string `json:"enrollment_no,omitempty"`
	EmployeeID   string `json:"employee_id,omitempty"`
	Designation  string `json:"designation,omitempty"`
}

// Attendance summarizes a participant's recorded presence for an event.
type Attendance struct {
	Percentage       float64 `json:"percentage"`
	SessionsAttended int     `json:"sessions_attended"`
	TotalSessions    int     `json:"total_sessions"`
}

type Team struct {
	Name string `json:"name"`
}

// Registration is supplied by the registration collaborator and is read-only
// to the certificate pipeline.
type Registration struct {
	ID               uuid.UUID        `json:"registration_id"`
	EventID          uuid.UUID        `json:"event_id"`
	RegistrationType RegistrationType `json:"registration_type"`
	Student          *Participant     `json:"student,omitempty"`
	Faculty          *Participant     `json:"faculty,omitempty"`
	Team             *Team            `json:"team,omitempty"`
	Attendance       *Attendance      `json:"attendance,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Participant returns the registered person and their role. Student wins when
// both are present, mirroring how the registration collaborator populates them.
func (r *Registration) Participant() (*Participant, string) {
	if r.Student != nil {
		return r.Student, "student"
	}
	if r.Faculty != nil {
		return r.Faculty, "faculty"
	}
	return nil, ""
}

// AttendanceCriteria is the innermost nesting level of an attendance policy.
type AttendanceCriteria struct {
	MinimumPercentage *float64 `json:"minimum_percentage,omitempty"`
}

// AttendanceStrategy carries the event's attendance policy. Older events set
// minimum_percentage directly; newer ones nest it under criteria.
type AttendanceStrategy struct {
	Criteria          *AttendanceCriteria `json:"criteria,omitempty"`
	MinimumPercentage *float64            `json:"minimum_percentage,omitempty"`
}

// Event is supplied by the event collaborator and is read-only to the pipeline.
type Event struct {
	ID                   uuid.UUID           `json:"id"`
	Name                 string              `json:"name"`
	EventType            string              `json:"event_type"`
	StartsAt             time.Time           `json:"starts_at"`
	AttendanceStrategy   *AttendanceStrategy `json:"attendance_strategy,omitempty"`
	MinimumPercentage    *float64            `json:"minimum_percentage,omitempty"`
	CertificateTemplates map[string]string   `json:"certificate_templates"`
}

// TemplateURL resolves the template for a certificate type, if configured.
func (e *Event) TemplateURL(certificateType string) (string, bool) {
	url, ok := e.CertificateTemplates[certificateType]
	return url, ok && url != ""
}
