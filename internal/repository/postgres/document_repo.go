package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"noteflow/internal/domain"
	"noteflow/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentStore.
func NewDocumentRepo(db *sqlx.DB) port.DocumentStore {
	return &documentRepo{db: db}
}

func (r *documentRepo) CreateDocument(ctx context.Context, doc *domain.DocumentRecord) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents (
		id, therapist_id, client_id, file_name, file_path,
		category, tags, session_count, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10
	)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.TherapistID, doc.ClientID, doc.FileName, doc.FilePath,
		doc.Category, doc.Tags, doc.SessionCount, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.CreateDocument: %w", err)
	}
	return nil
}
