package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"noteflow/internal/domain"
	"noteflow/internal/intake"
	"noteflow/internal/port"
)

const defaultMaxImportAttempts = 3

// ProcessDocumentInput is the DTO for processing a clinical document.
type ProcessDocumentInput struct {
	TherapistID uuid.UUID
	FilePath    string
}

// IntakeService defines the document intake contract.
type IntakeService interface {
	ProcessDocument(ctx context.Context, input *ProcessDocumentInput) (*intake.ProcessingResult, error)
	EnqueueImport(ctx context.Context, input *ProcessDocumentInput) (*domain.ImportJob, error)
	GetImportJob(ctx context.Context, jobID uuid.UUID) (*domain.ImportJob, error)
	CancelImport(ctx context.Context, jobID uuid.UUID) error
	ProcessImportJob(ctx context.Context, job *domain.ImportJob, maxAttempts int)
}

type intakeService struct {
	therapists port.TherapistStore
	extractor  port.TextExtractor
	pipeline   *intake.Pipeline
	jobs       port.ImportJobRepository
}

// NewIntakeService creates a new IntakeService implementation.
func NewIntakeService(
	therapists port.TherapistStore,
	extractor port.TextExtractor,
	pipeline *intake.Pipeline,
	jobs port.ImportJobRepository,
) IntakeService {
	return &intakeService{
		therapists: therapists,
		extractor:  extractor,
		pipeline:   pipeline,
		jobs:       jobs,
	}
}

// ProcessDocument runs the full intake pipeline synchronously. Errors
// returned here are whole-document failures; anything recoverable is
// reported inside the result instead.
func (s *intakeService) ProcessDocument(ctx context.Context, input *ProcessDocumentInput) (*intake.ProcessingResult, error) {
	if err := s.checkTherapist(ctx, input.TherapistID); err != nil {
		return nil, err
	}

	text, err := s.extractor.ExtractText(ctx, input.FilePath)
	if err != nil {
		return nil, fmt.Errorf("intakeService.ProcessDocument: %w", err)
	}

	result, err := s.pipeline.Process(ctx, input.TherapistID, input.FilePath, text)
	if err != nil {
		return nil, fmt.Errorf("intakeService.ProcessDocument: %w", err)
	}
	return result, nil
}

// EnqueueImport validates the request and queues a background import job.
func (s *intakeService) EnqueueImport(ctx context.Context, input *ProcessDocumentInput) (*domain.ImportJob, error) {
	if err := s.checkTherapist(ctx, input.TherapistID); err != nil {
		return nil, err
	}

	job := &domain.ImportJob{
		ID:          uuid.New(),
		TherapistID: input.TherapistID,
		FilePath:    input.FilePath,
		Status:      domain.ImportStatusQueued,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("intakeService.EnqueueImport: %w", err)
	}

	log.Printf("intakeService.EnqueueImport: queued job %s for %s", job.ID, job.FilePath)
	return job, nil
}

func (s *intakeService) GetImportJob(ctx context.Context, jobID uuid.UUID) (*domain.ImportJob, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// CancelImport removes a job that has not been picked up by a worker yet.
// The status check and the delete race against claiming; DeleteQueued is
// the authoritative guard.
func (s *intakeService) CancelImport(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != domain.ImportStatusQueued {
		return domain.ErrImportJobNotQueued
	}
	if err := s.jobs.DeleteQueued(ctx, jobID); err != nil {
		return err
	}
	log.Printf("intakeService.CancelImport: cancelled job %s", jobID)
	return nil
}

// ProcessImportJob runs the pipeline for a claimed job and records the
// outcome. Failed jobs are requeued until maxAttempts is reached.
func (s *intakeService) ProcessImportJob(ctx context.Context, job *domain.ImportJob, maxAttempts int) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxImportAttempts
	}

	result, err := s.ProcessDocument(ctx, &ProcessDocumentInput{
		TherapistID: job.TherapistID,
		FilePath:    job.FilePath,
	})
	if err != nil {
		s.failJob(ctx, job, maxAttempts, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.failJob(ctx, job, maxAttempts, fmt.Errorf("marshaling result: %w", err))
		return
	}

	job.Result = payload
	if err := s.jobs.MarkCompleted(ctx, job); err != nil {
		log.Printf("intakeService.ProcessImportJob: MarkCompleted %s: %v", job.ID, err)
		return
	}
	log.Printf("intakeService.ProcessImportJob: job %s completed (%d clients, %d notes)",
		job.ID, result.TotalClients, result.CreatedProgressNotes)
}

func (s *intakeService) failJob(ctx context.Context, job *domain.ImportJob, maxAttempts int, cause error) {
	job.LastError = cause.Error()
	if job.Attempts >= maxAttempts {
		job.Status = domain.ImportStatusFailed
	} else {
		job.Status = domain.ImportStatusQueued
	}
	if err := s.jobs.MarkFailed(ctx, job); err != nil {
		log.Printf("intakeService.failJob: MarkFailed %s: %v", job.ID, err)
		return
	}
	log.Printf("intakeService.failJob: job %s attempt %d/%d failed: %v",
		job.ID, job.Attempts, maxAttempts, cause)
}

func (s *intakeService) checkTherapist(ctx context.Context, therapistID uuid.UUID) error {
	therapist, err := s.therapists.GetTherapist(ctx, therapistID)
	if err != nil {
		return err
	}
	if !therapist.IsActive {
		return domain.ErrTherapistInactive
	}
	return nil
}
