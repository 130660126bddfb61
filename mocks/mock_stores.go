package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"noteflow/internal/domain"
)

// MockTherapistStore is a mock implementation of port.TherapistStore.
type MockTherapistStore struct {
	mock.Mock
}

func (m *MockTherapistStore) GetTherapist(ctx context.Context, therapistID uuid.UUID) (*domain.Therapist, error) {
	args := m.Called(ctx, therapistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Therapist), args.Error(1)
}

// MockRosterStore is a mock implementation of port.RosterStore.
type MockRosterStore struct {
	mock.Mock
}

func (m *MockRosterStore) GetClients(ctx context.Context, therapistID uuid.UUID) ([]domain.Client, error) {
	args := m.Called(ctx, therapistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockRosterStore) GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

// MockAppointmentStore is a mock implementation of port.AppointmentStore.
type MockAppointmentStore struct {
	mock.Mock
}

func (m *MockAppointmentStore) GetAppointmentsByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Appointment, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

// MockSessionNoteStore is a mock implementation of port.SessionNoteStore.
type MockSessionNoteStore struct {
	mock.Mock
}

func (m *MockSessionNoteStore) CreateSessionNote(ctx context.Context, note *domain.SessionNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockSessionNoteStore) ListByClient(ctx context.Context, clientID uuid.UUID, offset, limit int) ([]domain.SessionNote, int, error) {
	args := m.Called(ctx, clientID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SessionNote), args.Int(1), args.Error(2)
}

// MockDocumentStore is a mock implementation of port.DocumentStore.
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) CreateDocument(ctx context.Context, doc *domain.DocumentRecord) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// MockImportJobRepository is a mock implementation of port.ImportJobRepository.
type MockImportJobRepository struct {
	mock.Mock
}

func (m *MockImportJobRepository) Create(ctx context.Context, job *domain.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockImportJobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*domain.ImportJob, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportJob), args.Error(1)
}

func (m *MockImportJobRepository) ClaimQueued(ctx context.Context, limit int) ([]domain.ImportJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ImportJob), args.Error(1)
}

func (m *MockImportJobRepository) DeleteQueued(ctx context.Context, jobID uuid.UUID) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func (m *MockImportJobRepository) MarkCompleted(ctx context.Context, job *domain.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockImportJobRepository) MarkFailed(ctx context.Context, job *domain.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
