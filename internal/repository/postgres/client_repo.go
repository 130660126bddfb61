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

type clientRepo struct {
	db *sqlx.DB
}

// NewClientRepo creates a new PostgreSQL-backed RosterStore.
func NewClientRepo(db *sqlx.DB) port.RosterStore {
	return &clientRepo{db: db}
}

func (r *clientRepo) GetClients(ctx context.Context, therapistID uuid.UUID) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.SelectContext(ctx, &clients,
		`SELECT * FROM clients WHERE therapist_id = $1 AND is_active = true
		 ORDER BY last_name, first_name`, therapistID)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.GetClients: %w", err)
	}
	return clients, nil
}

func (r *clientRepo) GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client,
		"SELECT * FROM clients WHERE id = $1", clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}
	return &client, nil
}
