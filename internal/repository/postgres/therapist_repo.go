package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"noteflow/internal/domain"
	"noteflow/internal/port"
)

type therapistRepo struct {
	db *sqlx.DB
}

// NewTherapistRepo creates a new PostgreSQL-backed TherapistStore.
func NewTherapistRepo(db *sqlx.DB) port.TherapistStore {
	return &therapistRepo{db: db}
}

func (r *therapistRepo) GetTherapist(ctx context.Context, therapistID uuid.UUID) (*domain.Therapist, error) {
	var t domain.Therapist
	err := r.db.GetContext(ctx, &t,
		"SELECT * FROM therapists WHERE id = $1", therapistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTherapistNotFound
		}
		return nil, fmt.Errorf("therapistRepo.GetTherapist: %w", err)
	}
	return &t, nil
}
