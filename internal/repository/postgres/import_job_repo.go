package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"noteflow/internal/domain"
	"noteflow/internal/port"
)

type importJobRepo struct {
	db *sqlx.DB
}

// NewImportJobRepo creates a new PostgreSQL-backed ImportJobRepository.
func NewImportJobRepo(db *sqlx.DB) port.ImportJobRepository {
	return &importJobRepo{db: db}
}

func (r *importJobRepo) Create(ctx context.Context, job *domain.ImportJob) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `INSERT INTO import_jobs (
		id, therapist_id, file_path, status, attempts,
		result, last_error, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9
	)`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.TherapistID, job.FilePath, job.Status, job.Attempts,
		job.Result, job.LastError, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateImportJob
		}
		return fmt.Errorf("importJobRepo.Create: %w", err)
	}
	return nil
}

func (r *importJobRepo) GetByID(ctx context.Context, jobID uuid.UUID) (*domain.ImportJob, error) {
	var job domain.ImportJob
	err := r.db.GetContext(ctx, &job,
		"SELECT * FROM import_jobs WHERE id = $1", jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrImportJobNotFound
		}
		return nil, fmt.Errorf("importJobRepo.GetByID: %w", err)
	}
	return &job, nil
}

// ClaimQueued atomically moves up to limit queued jobs to processing and
// returns them. Concurrent workers never claim the same job.
func (r *importJobRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.ImportJob, error) {
	var jobs []domain.ImportJob
	err := r.db.SelectContext(ctx, &jobs,
		`UPDATE import_jobs SET status = $1, updated_at = $2
		 WHERE id IN (
			SELECT id FROM import_jobs WHERE status = $3
			ORDER BY created_at ASC LIMIT $4
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.ImportStatusProcessing, time.Now().UTC(), domain.ImportStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("importJobRepo.ClaimQueued: %w", err)
	}
	return jobs, nil
}

func (r *importJobRepo) DeleteQueued(ctx context.Context, jobID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM import_jobs WHERE id = $1 AND status = $2",
		jobID, domain.ImportStatusQueued)
	if err != nil {
		return fmt.Errorf("importJobRepo.DeleteQueued: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrImportJobNotQueued
	}
	return nil
}

func (r *importJobRepo) MarkCompleted(ctx context.Context, job *domain.ImportJob) error {
	job.Status = domain.ImportStatusCompleted
	job.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE import_jobs SET status = $1, result = $2, last_error = '', updated_at = $3
		 WHERE id = $4`,
		job.Status, job.Result, job.UpdatedAt, job.ID)
	if err != nil {
		return fmt.Errorf("importJobRepo.MarkCompleted: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrImportJobNotFound
	}
	return nil
}

func (r *importJobRepo) MarkFailed(ctx context.Context, job *domain.ImportJob) error {
	job.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE import_jobs SET status = $1, attempts = $2, last_error = $3, updated_at = $4
		 WHERE id = $5`,
		job.Status, job.Attempts, job.LastError, job.UpdatedAt, job.ID)
	if err != nil {
		return fmt.Errorf("importJobRepo.MarkFailed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrImportJobNotFound
	}
	return nil
}
