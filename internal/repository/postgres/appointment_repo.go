package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"noteflow/internal/domain"
	"noteflow/internal/port"
)

type appointmentRepo struct {
	db *sqlx.DB
}

// NewAppointmentRepo creates a new PostgreSQL-backed AppointmentStore.
func NewAppointmentRepo(db *sqlx.DB) port.AppointmentStore {
	return &appointmentRepo{db: db}
}

// GetAppointmentsByClient returns the client's appointments ordered by start
// time. The linker depends on this ordering for deterministic matches.
func (r *appointmentRepo) GetAppointmentsByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	err := r.db.SelectContext(ctx, &appts,
		`SELECT * FROM appointments WHERE client_id = $1
		 ORDER BY start_time ASC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("appointmentRepo.GetAppointmentsByClient: %w", err)
	}
	return appts, nil
}
