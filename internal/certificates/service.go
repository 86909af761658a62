package certificates

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campus-connect/event-portal/event-portal-backend/internal/artifacts"
	"campus-connect/event-portal/event-portal-backend/internal/registrations"
	"campus-connect/event-portal/event-portal-backend/internal/render"
)

// Notifier is told about successful issuance. Delivery is best effort and
// never affects the result.
type Notifier interface {
	CertificateIssued(ctx context.Context, recipientEmail, recipientName string, cert *artifacts.Certificate, downloadURL string)
}

// Service orchestrates the certificate pipeline: eligibility, cached template
// fetch, data dictionary, placeholder resolution, rendering, artifact storage.
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) *GenerateResult
	InvalidateTemplateCache(ctx context.Context) error
}

type TemplateSource interface {
	Template(ctx context.Context, templateURL string) (string, error)
	Invalidate(ctx context.Context) error
}

// Options configures the orchestrator.
type Options struct {
	DefaultStrategy render.Strategy
}

type certificateService struct {
	registrations registrations.Repository
	source        TemplateSource
	renderer      render.Renderer
	artifacts     artifacts.Service
	notifier      Notifier
	opts          Options
	logger        *zap.Logger
	now           func() time.Time
}

func NewService(
	regs registrations.Repository,
	source TemplateSource,
	renderer render.Renderer,
	arts artifacts.Service,
	notifier Notifier,
	opts Options,
	logger *zap.Logger,
) Service {
	if opts.DefaultStrategy == "" {
		opts.DefaultStrategy = render.StrategyAuto
	}
	return &certificateService{
		registrations: regs,
		source:        source,
		renderer:      renderer,
		artifacts:     arts,
		notifier:      notifier,
		opts:          opts,
		logger:        logger,
		now:           time.Now,
	}
}

// Generate runs the pipeline for one registration. Failures are reported as a
// structured result, never as an error or a panic escaping this boundary. No
// step runs if an earlier one failed, and an ineligible registration is
// rejected before any network or browser work.
func (s *certificateService) Generate(ctx context.Context, req GenerateRequest) (result *GenerateResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Certificate generation panicked",
				zap.String("registration_id", req.RegistrationID.String()),
				zap.Any("panic", r))
			result = failure(CodeRenderFailed, "internal error during certificate generation")
		}
	}()

	if req.CertificateType == "" {
		return failure(CodeInvalidRequest, "certificate_type is required")
	}

	reg, err := s.registrations.GetRegistration(ctx, req.RegistrationID)
	if err != nil {
		return failure(CodeInvalidRequest, fmt.Sprintf("failed to load registration: %v", err))
	}
	if reg == nil {
		return failure(CodeInvalidRequest, "registration not found")
	}

	event, err := s.registrations.GetEvent(ctx, req.EventID)
	if err != nil {
		return failure(CodeInvalidRequest, fmt.Sprintf("failed to load event: %v", err))
	}
	if event == nil {
		return failure(CodeInvalidRequest, "event not found")
	}

	eligibility := EvaluateEligibility(reg, event)
	if !eligibility.Eligible {
		res := failure(CodeIneligible, ineligibleMessage(eligibility))
		res.Details = &eligibility
		return res
	}

	templateURL := req.TemplateURL
	if templateURL == "" {
		url, ok := event.TemplateURL(req.CertificateType)
		if !ok {
			return failure(CodeInvalidRequest,
				fmt.Sprintf("event has no template for certificate type %q", req.CertificateType))
		}
		templateURL = url
	}

	templateHTML, err := s.source.Template(ctx, templateURL)
	if err != nil {
		s.logger.Error("Template fetch failed",
			zap.String("url", templateURL), zap.Error(err))
		return failure(CodeFetchFailed, fmt.Sprintf("failed to fetch certificate template: %v", err))
	}

	dict := BuildDictionary(reg, event, req.CertificateType, s.now(), s.logger)
	filled, unresolved := ResolvePlaceholders(templateHTML, dict)
	if len(unresolved) > 0 {
		s.logger.Warn("Template placeholders left unresolved",
			zap.String("url", templateURL),
			zap.Strings("keys", unresolved))
	}

	participant, _ := reg.Participant()
	participantName := ""
	if participant != nil {
		participantName = participant.Name
	}
	filename := BuildFilename(req.CertificateType, event.Name, participantName)

	strategy := req.Strategy
	if strategy == "" {
		strategy = s.opts.DefaultStrategy
	}
	strategy = render.ResolveStrategy(strategy, req.UserAgent)

	pdf, err := s.renderer.Render(ctx, filled, strategy)
	if err != nil {
		return failure(CodeRenderFailed, renderFailureMessage(err))
	}

	cert, err := s.artifacts.StoreCertificate(ctx, artifacts.StoreRequest{
		RegistrationID:  reg.ID,
		EventID:         event.ID,
		CertificateType: req.CertificateType,
		ParticipantName: participantName,
		Filename:        filename,
		PDF:             pdf,
	})
	if err != nil {
		return failure(CodeStorageFailed, fmt.Sprintf("failed to store certificate: %v", err))
	}

	downloadURL, err := s.artifacts.PresignedURL(ctx, cert)
	if err != nil {
		s.logger.Warn("Failed to presign certificate download",
			zap.String("certificate_id", cert.ID.String()), zap.Error(err))
		downloadURL = ""
	}

	// Issuance is already durable; delivery must not hold the request open.
	// The notifier detaches from ctx and applies its own deadline.
	if s.notifier != nil && participant != nil && participant.Email != "" {
		go s.notifier.CertificateIssued(ctx, participant.Email, participant.Name, cert, downloadURL)
	}

	return &GenerateResult{
		Success:       true,
		Message:       fmt.Sprintf("Certificate generated for %s", participantName),
		CertificateID: &cert.ID,
		Filename:      filename,
		DownloadURL:   downloadURL,
	}
}

func (s *certificateService) InvalidateTemplateCache(ctx context.Context) error {
	return s.source.Invalidate(ctx)
}

func ineligibleMessage(e Eligibility) string {
	if e.Reason != "" {
		return fmt.Sprintf("not eligible for a certificate: %s", e.Reason)
	}
	return fmt.Sprintf("attendance %.1f%% is below the required %.1f%%", e.Percentage, e.Required)
}

func renderFailureMessage(err error) string {
	return fmt.Sprintf("failed to render certificate document: %v", err)
}
