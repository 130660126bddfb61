package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"noteflow/internal/domain"
	"noteflow/internal/port"
)

type sessionNoteRepo struct {
	db *sqlx.DB
}

// NewSessionNoteRepo creates a new PostgreSQL-backed SessionNoteStore.
func NewSessionNoteRepo(db *sqlx.DB) port.SessionNoteStore {
	return &sessionNoteRepo{db: db}
}

func (r *sessionNoteRepo) CreateSessionNote(ctx context.Context, note *domain.SessionNote) error {
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	query := `INSERT INTO session_notes (
		id, client_id, therapist_id, appointment_id,
		title, content, subjective, objective, assessment, plan,
		key_points, significant_quotes, narrative_summary, tags,
		session_date, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14,
		$15, $16, $17
	)`

	_, err := r.db.ExecContext(ctx, query,
		note.ID, note.ClientID, note.TherapistID, note.AppointmentID,
		note.Title, note.Content, note.Subjective, note.Objective, note.Assessment, note.Plan,
		note.KeyPoints, note.SignificantQuotes, note.NarrativeSummary, note.Tags,
		note.SessionDate, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sessionNoteRepo.CreateSessionNote: %w", err)
	}
	return nil
}

func (r *sessionNoteRepo) ListByClient(ctx context.Context, clientID uuid.UUID, offset, limit int) ([]domain.SessionNote, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM session_notes WHERE client_id = $1", clientID)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionNoteRepo.ListByClient count: %w", err)
	}

	var notes []domain.SessionNote
	err = r.db.SelectContext(ctx, &notes,
		`SELECT * FROM session_notes WHERE client_id = $1
		 ORDER BY session_date DESC NULLS LAST, created_at DESC LIMIT $2 OFFSET $3`,
		clientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionNoteRepo.ListByClient: %w", err)
	}
	return notes, total, nil
}
