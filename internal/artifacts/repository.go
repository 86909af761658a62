package artifacts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateCertificate(ctx context.Context, cert *Certificate) error
	GetCertificateByID(ctx context.Context, id uuid.UUID) (*Certificate, error)
	ListCertificates(ctx context.Context, eventID, registrationID *uuid.UUID) ([]Certificate, error)
	DeleteCertificate(ctx context.Context, id uuid.UUID) error
	ListIssuedBefore(ctx context.Context, cutoff time.Time) ([]Certificate, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateCertificate(ctx context.Context, cert *Certificate) error {
	query := `
		INSERT INTO certificates (
			id, registration_id, event_id, certificate_type, participant_name,
			filename, s3_key, s3_bucket, file_size, checksum, issued_at
		) VALUES (
			:id, :registration_id, :event_id, :certificate_type, :participant_name,
			:filename, :s3_key, :s3_bucket, :file_size, :checksum, :issued_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, cert)
	return err
}

func (r *postgresRepository) GetCertificateByID(ctx context.Context, id uuid.UUID) (*Certificate, error) {
	var cert Certificate
	err := r.db.GetContext(ctx, &cert, "SELECT * FROM certificates WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &cert, err
}

func (r *postgresRepository) ListCertificates(ctx context.Context, eventID, registrationID *uuid.UUID) ([]Certificate, error) {
	var certs []Certificate
	query := "SELECT * FROM certificates WHERE 1=1"
	var args []interface{}
	argCount := 1

	if eventID != nil {
		query += fmt.Sprintf(" AND event_id = $%d", argCount)
		args = append(args, *eventID)
		argCount++
	}
	if registrationID != nil {
		query += fmt.Sprintf(" AND registration_id = $%d", argCount)
		args = append(args, *registrationID)
		argCount++
	}
	query += " ORDER BY issued_at DESC"

	err := r.db.SelectContext(ctx, &certs, query, args...)
	return certs, err
}

func (r *postgresRepository) DeleteCertificate(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM certificates WHERE id = $1", id)
	return err
}

func (r *postgresRepository) ListIssuedBefore(ctx context.Context, cutoff time.Time) ([]Certificate, error) {
	var certs []Certificate
	err := r.db.SelectContext(ctx, &certs,
		"SELECT * FROM certificates WHERE issued_at < $1 ORDER BY issued_at", cutoff)
	return certs, err
}
