package registrations

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository reads registration and event records. The pipeline never writes
// them; upserts belong to the registration service.
type Repository interface {
	GetRegistration(ctx context.Context, id uuid.UUID) (*Registration, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

type registrationRow struct {
	ID               uuid.UUID       `db:"id"`
	EventID          uuid.UUID       `db:"event_id"`
	RegistrationType string          `db:"registration_type"`
	Data             json.RawMessage `db:"data"`
	CreatedAt        time.Time       `db:"created_at"`
}

type eventRow struct {
	ID        uuid.UUID       `db:"id"`
	Name      string          `db:"name"`
	EventType string          `db:"event_type"`
	StartsAt  time.Time       `db:"starts_at"`
	Data      json.RawMessage `db:"data"`
}

func (r *postgresRepository) GetRegistration(ctx context.Context, id uuid.UUID) (*Registration, error) {
	var row registrationRow
	err := r.db.GetContext(ctx, &row,
		"SELECT id, event_id, registration_type, data, created_at FROM registrations WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	reg := &Registration{}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, reg); err != nil {
			return nil, fmt.Errorf("failed to decode registration %s: %w", id, err)
		}
	}
	reg.ID = row.ID
	reg.EventID = row.EventID
	reg.RegistrationType = RegistrationType(row.RegistrationType)
	reg.CreatedAt = row.CreatedAt
	return reg, nil
}

func (r *postgresRepository) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	var row eventRow
	err := r.db.GetContext(ctx, &row,
		"SELECT id, name, event_type, starts_at, data FROM events WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	event := &Event{}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, event); err != nil {
			return nil, fmt.Errorf("failed to decode event %s: %w", id, err)
		}
	}
	event.ID = row.ID
	event.Name = row.Name
	event.EventType = row.EventType
	event.StartsAt = row.StartsAt
	return event, nil
}
