package port

import (
	"context"

	"github.com/google/uuid"

	"noteflow/internal/domain"
)

// TherapistStore provides access to therapist records.
type TherapistStore interface {
	GetTherapist(ctx context.Context, therapistID uuid.UUID) (*domain.Therapist, error)
}

// RosterStore provides access to a therapist's client roster.
type RosterStore interface {
	GetClients(ctx context.Context, therapistID uuid.UUID) ([]domain.Client, error)
	GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error)
}

// AppointmentStore provides access to existing calendar appointments.
// GetAppointmentsByClient returns appointments in ascending start-time
// order; the linker relies on that ordering being stable.
type AppointmentStore interface {
	GetAppointmentsByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Appointment, error)
}

// SessionNoteStore persists clinical session notes.
type SessionNoteStore interface {
	CreateSessionNote(ctx context.Context, note *domain.SessionNote) error
	ListByClient(ctx context.Context, clientID uuid.UUID, offset, limit int) ([]domain.SessionNote, int, error)
}

// DocumentStore persists imported document metadata records.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *domain.DocumentRecord) error
}

// ImportJobRepository manages queued document import jobs.
type ImportJobRepository interface {
	Create(ctx context.Context, job *domain.ImportJob) error
	GetByID(ctx context.Context, jobID uuid.UUID) (*domain.ImportJob, error)
	ClaimQueued(ctx context.Context, limit int) ([]domain.ImportJob, error)
	// DeleteQueued removes the job only while it is still queued; a job
	// already claimed by a worker yields domain.ErrImportJobNotQueued.
	DeleteQueued(ctx context.Context, jobID uuid.UUID) error
	MarkCompleted(ctx context.Context, job *domain.ImportJob) error
	MarkFailed(ctx context.Context, job *domain.ImportJob) error
}
