package certificates

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"campus-connect/event-portal/event-portal-backend/internal/render"
)

// Failure codes let the transport layer map a GenerateResult onto a status
// without parsing message text.
const (
	CodeInvalidRequest = "invalid_request"
	CodeIneligible     = "ineligible"
	CodeFetchFailed    = "fetch_failed"
	CodeRenderFailed   = "render_failed"
	CodeStorageFailed  = "storage_failed"
)

// GenerateRequest asks the orchestrator to produce one certificate.
type GenerateRequest struct {
	RegistrationID  uuid.UUID       `json:"registration_id"`
	EventID         uuid.UUID       `json:"event_id"`
	CertificateType string          `json:"certificate_type"`
	TemplateURL     string          `json:"template_url,omitempty"`
	Strategy        render.Strategy `json:"strategy,omitempty"`
	UserAgent       string          `json:"user_agent,omitempty"`
}

// GenerateResult is the structured outcome of a generation attempt. Failures
// never escape the orchestrator as errors; they are reported here.
type GenerateResult struct {
	Success       bool         `json:"success"`
	Message       string       `json:"message,omitempty"`
	Error         string       `json:"error,omitempty"`
	Code          string       `json:"code,omitempty"`
	Details       *Eligibility `json:"details,omitempty"`
	CertificateID *uuid.UUID   `json:"certificate_id,omitempty"`
	Filename      string       `json:"filename,omitempty"`
	DownloadURL   string       `json:"download_url,omitempty"`
}

func failure(code, message string) *GenerateResult {
	return &GenerateResult{Success: false, Code: code, Error: message}
}

var filenameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_]`)

// BuildFilename derives the artifact name from its identifying components,
// each sanitized to [A-Za-z0-9_].
func BuildFilename(certificateType, eventName, participantName string) string {
	parts := []string{
		sanitizeComponent(certificateType),
		sanitizeComponent(eventName),
		sanitizeComponent(participantName),
	}
	return strings.Join(parts, "_") + ".pdf"
}

func sanitizeComponent(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	return filenameSanitizer.ReplaceAllString(s, "")
}
