package artifacts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-connect/event-portal/event-portal-backend/pkg/storage"
)

type Service interface {
	StoreCertificate(ctx context.Context, req StoreRequest) (*Certificate, error)
	GetCertificate(ctx context.Context, id uuid.UUID) (*Certificate, error)
	ListCertificates(ctx context.Context, eventID, registrationID *uuid.UUID) ([]Certificate, error)
	DownloadCertificate(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Certificate, error)
	PresignedURL(ctx context.Context, cert *Certificate) (string, error)
	PurgeIssuedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// StoreRequest carries a freshly rendered PDF into storage.
type StoreRequest struct {
	RegistrationID  uuid.UUID
	EventID         uuid.UUID
	CertificateType string
	ParticipantName string
	Filename        string
	PDF             []byte
}

// Options configures the artifact service.
type Options struct {
	Bucket          string
	PresignLifetime time.Duration
}

type certificateService struct {
	repo   Repository
	s3     storage.S3Client
	opts   Options
	logger *zap.Logger
}

func NewService(repo Repository, s3 storage.S3Client, opts Options, logger *zap.Logger) Service {
	if opts.PresignLifetime <= 0 {
		opts.PresignLifetime = 15 * time.Minute
	}
	return &certificateService{repo: repo, s3: s3, opts: opts, logger: logger}
}

func (s *certificateService) StoreCertificate(ctx context.Context, req StoreRequest) (*Certificate, error) {
	if len(req.PDF) == 0 {
		return nil, fmt.Errorf("empty certificate document")
	}

	id := uuid.New()
	key := objectKey(req.EventID, req.CertificateType, req.Filename)
	sum := sha256.Sum256(req.PDF)

	if err := s.s3.Upload(ctx, s.opts.Bucket, key, bytes.NewReader(req.PDF)); err != nil {
		return nil, fmt.Errorf("failed to store certificate artifact: %w", err)
	}

	cert := &Certificate{
		ID:              id,
		RegistrationID:  req.RegistrationID,
		EventID:         req.EventID,
		CertificateType: req.CertificateType,
		ParticipantName: req.ParticipantName,
		Filename:        req.Filename,
		S3Key:           key,
		S3Bucket:        s.opts.Bucket,
		FileSize:        int64(len(req.PDF)),
		Checksum:        hex.EncodeToString(sum[:]),
		IssuedAt:        time.Now(),
	}

	if err := s.repo.CreateCertificate(ctx, cert); err != nil {
		return nil, fmt.Errorf("failed to record issued certificate: %w", err)
	}

	s.logger.Info("Certificate issued",
		zap.String("certificate_id", cert.ID.String()),
		zap.String("registration_id", cert.RegistrationID.String()),
		zap.String("filename", cert.Filename))
	return cert, nil
}

func (s *certificateService) GetCertificate(ctx context.Context, id uuid.UUID) (*Certificate, error) {
	return s.repo.GetCertificateByID(ctx, id)
}

func (s *certificateService) ListCertificates(ctx context.Context, eventID, registrationID *uuid.UUID) ([]Certificate, error) {
	return s.repo.ListCertificates(ctx, eventID, registrationID)
}

func (s *certificateService) DownloadCertificate(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Certificate, error) {
	cert, err := s.repo.GetCertificateByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if cert == nil {
		return nil, nil, nil
	}
	body, err := s.s3.Download(ctx, cert.S3Bucket, cert.S3Key)
	if err != nil {
		return nil, nil, err
	}
	return body, cert, nil
}

func (s *certificateService) PresignedURL(ctx context.Context, cert *Certificate) (string, error) {
	return s.s3.GetPresignedURL(ctx, cert.S3Bucket, cert.S3Key, s.opts.PresignLifetime)
}

// PurgeIssuedBefore removes artifacts past retention, object first, then the
// row; a failed object delete leaves the row so the next sweep retries it.
func (s *certificateService) PurgeIssuedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	certs, err := s.repo.ListIssuedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired certificates: %w", err)
	}

	purged := 0
	for _, cert := range certs {
		if err := s.s3.Delete(ctx, cert.S3Bucket, cert.S3Key); err != nil {
			s.logger.Warn("Failed to delete expired certificate object",
				zap.String("certificate_id", cert.ID.String()), zap.Error(err))
			continue
		}
		if err := s.repo.DeleteCertificate(ctx, cert.ID); err != nil {
			s.logger.Warn("Failed to delete expired certificate record",
				zap.String("certificate_id", cert.ID.String()), zap.Error(err))
			continue
		}
		purged++
	}
	return purged, nil
}

func objectKey(eventID uuid.UUID, certificateType, filename string) string {
	return fmt.Sprintf("events/%s/certificates/%s/%s", eventID, certificateType, filename)
}
