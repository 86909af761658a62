package artifacts

import (
	"time"

	"github.com/google/uuid"
)

// Certificate records one issued PDF artifact. The file itself lives in
// object storage; this row is the issuance log entry.
type Certificate struct {
	ID              uuid.UUID `json:"id" db:"id"`
	RegistrationID  uuid.UUID `json:"registration_id" db:"registration_id"`
	EventID         uuid.UUID `json:"event_id" db:"event_id"`
	CertificateType string    `json:"certificate_type" db:"certificate_type"`
	ParticipantName string    `json:"participant_name" db:"participant_name"`
	Filename        string    `json:"filename" db:"filename"`
	S3Key           string    `json:"s3_key" db:"s3_key"`
	S3Bucket        string    `json:"s3_bucket" db:"s3_bucket"`
	FileSize        int64     `json:"file_size" db:"file_size"`
	Checksum        string    `json:"checksum" db:"checksum"`
	IssuedAt        time.Time `json:"issued_at" db:"issued_at"`
}
