package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"noteflow/internal/domain"
	"noteflow/internal/intake"
	"noteflow/internal/port"
	"noteflow/mocks"
)

type serviceFixture struct {
	therapists   *mocks.MockTherapistStore
	extractor    *mocks.MockTextExtractor
	understander *mocks.MockSessionUnderstander
	roster       *mocks.MockRosterStore
	appointments *mocks.MockAppointmentStore
	notes        *mocks.MockSessionNoteStore
	documents    *mocks.MockDocumentStore
	jobs         *mocks.MockImportJobRepository
	service      IntakeService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		therapists:   new(mocks.MockTherapistStore),
		extractor:    new(mocks.MockTextExtractor),
		understander: new(mocks.MockSessionUnderstander),
		roster:       new(mocks.MockRosterStore),
		appointments: new(mocks.MockAppointmentStore),
		notes:        new(mocks.MockSessionNoteStore),
		documents:    new(mocks.MockDocumentStore),
		jobs:         new(mocks.MockImportJobRepository),
	}
	pipeline := intake.NewPipeline(
		intake.NewSegmenter(50),
		intake.NewExtractor(f.understander, 0),
		intake.NewResolver(0.8),
		intake.NewLinker(f.appointments, 24*time.Hour),
		intake.NewMaterializer(f.notes, f.documents, nil),
		f.roster,
		1,
	)
	f.service = NewIntakeService(f.therapists, f.extractor, pipeline, f.jobs)
	return f
}

func (f *serviceFixture) activeTherapist(id uuid.UUID) {
	f.therapists.On("GetTherapist", mock.Anything, id).
		Return(&domain.Therapist{ID: id, FullName: "Dr. Reyes", IsActive: true}, nil)
}

// singleClientDocument drives the full chain with one roster client and one
// session.
const singleClientDocument = `Client: Sarah Johnson
Session 1: 2025-07-15
Discussed anxiety management and breathing exercises in detail.
`

func (f *serviceFixture) happyPipeline(therapistID uuid.UUID) {
	sarah := domain.Client{ID: uuid.New(), FirstName: "Sarah", LastName: "Johnson", IsActive: true}
	f.roster.On("GetClients", mock.Anything, therapistID).
		Return([]domain.Client{sarah}, nil)
	f.understander.On("ExtractSessions", mock.Anything, mock.Anything).
		Return(&port.UnderstandOutput{
			Sessions: []port.UnderstoodSession{{SessionDate: "2025-07-15", Content: "Discussed anxiety."}},
		}, nil)
	f.appointments.On("GetAppointmentsByClient", mock.Anything, sarah.ID).
		Return([]domain.Appointment{}, nil)
	f.notes.On("CreateSessionNote", mock.Anything, mock.Anything).Return(nil)
	f.documents.On("CreateDocument", mock.Anything, mock.Anything).Return(nil)
}

func TestProcessDocument_Success(t *testing.T) {
	f := newServiceFixture()
	therapistID := uuid.New()
	f.activeTherapist(therapistID)
	f.extractor.On("ExtractText", mock.Anything, "notes.txt").
		Return(singleClientDocument, nil)
	f.happyPipeline(therapistID)

	result, err := f.service.ProcessDocument(context.Background(), &ProcessDocumentInput{
		TherapistID: therapistID,
		FilePath:    "notes.txt",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalClients)
	assert.Equal(t, 1, result.SuccessfulMatches)
	assert.Equal(t, 1, result.CreatedProgressNotes)
}

func TestProcessDocument_TherapistNotFound(t *testing.T) {
	f := newServiceFixture()
	therapistID := uuid.New()
	f.therapists.On("GetTherapist", mock.Anything, therapistID).
		Return(nil, domain.ErrTherapistNotFound)

	_, err := f.service.ProcessDocument(context.Background(), &ProcessDocumentInput{
		TherapistID: therapistID,
		FilePath:    "notes.txt",
	})

	assert.ErrorIs(t, err, domain.ErrTherapistNotFound)
	f.extractor.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

func TestProcessDocument_InactiveTherapist(t *testing.T) {
	f := newServiceFixture()
	therapistID := uuid.New()
	f.therapists.On("GetTherapist", mock.Anything, therapistID).
		Return(&domain.Therapist{ID: therapistID, IsActive: false}, nil)

	_, err := f.service.ProcessDocument(context.Background(), &ProcessDocumentInput{
		TherapistID: therapistID,
		FilePath:    "notes.txt",
	})

	assert.ErrorIs(t, err, domain.ErrTherapistInactive)
	f.extractor.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

func TestProcessDocument_ExtractionFailure(t *testing.T) {
	f := newServiceFixture()
	therapistID := uuid.New()
	f.activeTherapist(therapistID)
	f.extractor.On("ExtractText", mock.Anything, "notes.pdf").
		Return("", domain.ErrDocumentUnreadable)

	result, err := f.service.ProcessDocument(context.Background(), &ProcessDocumentInput{
		TherapistID: therapistID,
		FilePath:    "notes.pdf",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrDocumentUnreadable)
}

func TestEnqueueImport(t *testing.T) {
	f := newServiceFixture()
	therapistID := uuid.New()
	f.activeTherapist(therapistID)

	var created *domain.ImportJob
	f.jobs.On("Create", mock.Anything, mock.MatchedBy(func(j *domain.ImportJob) bool {
		created = j
		return true
	})).Return(nil)

	job, err := f.service.EnqueueImport(context.Background(), &ProcessDocumentInput{
		TherapistID: therapistID,
		FilePath:    "notes.txt",
	})

	require.NoError(t, err)
	assert.Equal(t, created, job)
	assert.Equal(t, domain.ImportStatusQueued, job.Status)
	assert.Equal(t, therapistID, job.TherapistID)
	assert.Equal(t, "notes.txt", job.FilePath)
	assert.NotEqual(t, uuid.Nil, job.ID)
}

func TestEnqueueImport_Duplicate(t *testing.T) {
	f := newServiceFixture()
	therapistID := uuid.New()
	f.activeTherapist(therapistID)
	f.jobs.On("Create", mock.Anything, mock.Anything).
		Return(domain.ErrDuplicateImportJob)

	_, err := f.service.EnqueueImport(context.Background(), &ProcessDocumentInput{
		TherapistID: therapistID,
		FilePath:    "notes.txt",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateImportJob)
}

func TestProcessImportJob_Success(t *testing.T) {
	f := newServiceFixture()
	therapistID := uuid.New()
	f.activeTherapist(therapistID)
	f.extractor.On("ExtractText", mock.Anything, "notes.txt").
		Return(singleClientDocument, nil)
	f.happyPipeline(therapistID)

	var completed *domain.ImportJob
	f.jobs.On("MarkCompleted", mock.Anything, mock.MatchedBy(func(j *domain.ImportJob) bool {
		completed = j
		return true
	})).Return(nil)

	job := &domain.ImportJob{
		ID:          uuid.New(),
		TherapistID: therapistID,
		FilePath:    "notes.txt",
		Status:      domain.ImportStatusProcessing,
		Attempts:    1,
	}
	f.service.ProcessImportJob(context.Background(), job, 3)

	require.NotNil(t, completed)
	assert.JSONEq(t, string(completed.Result), string(job.Result))
	assert.Contains(t, string(job.Result), `"total_clients":1`)
	f.jobs.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything)
}

func TestProcessImportJob_FailureRequeues(t *testing.T) {
	f := newServiceFixture()
	therapistID := uuid.New()
	f.activeTherapist(therapistID)
	f.extractor.On("ExtractText", mock.Anything, "notes.txt").
		Return("", domain.ErrDocumentUnreadable)

	var failed *domain.ImportJob
	f.jobs.On("MarkFailed", mock.Anything, mock.MatchedBy(func(j *domain.ImportJob) bool {
		failed = j
		return true
	})).Return(nil)

	job := &domain.ImportJob{
		ID:          uuid.New(),
		TherapistID: therapistID,
		FilePath:    "notes.txt",
		Attempts:    1,
	}
	f.service.ProcessImportJob(context.Background(), job, 3)

	require.NotNil(t, failed)
	assert.Equal(t, domain.ImportStatusQueued, failed.Status)
	assert.Contains(t, failed.LastError, "no readable text")
}

func TestProcessImportJob_FailedAtMaxAttempts(t *testing.T) {
	f := newServiceFixture()
	therapistID := uuid.New()
	f.activeTherapist(therapistID)
	f.extractor.On("ExtractText", mock.Anything, "notes.txt").
		Return("", domain.ErrDocumentUnreadable)

	var failed *domain.ImportJob
	f.jobs.On("MarkFailed", mock.Anything, mock.MatchedBy(func(j *domain.ImportJob) bool {
		failed = j
		return true
	})).Return(nil)

	job := &domain.ImportJob{
		ID:          uuid.New(),
		TherapistID: therapistID,
		FilePath:    "notes.txt",
		Attempts:    3,
	}
	f.service.ProcessImportJob(context.Background(), job, 3)

	require.NotNil(t, failed)
	assert.Equal(t, domain.ImportStatusFailed, failed.Status)
}

func TestGetImportJob(t *testing.T) {
	f := newServiceFixture()
	jobID := uuid.New()
	want := &domain.ImportJob{ID: jobID, Status: domain.ImportStatusCompleted}
	f.jobs.On("GetByID", mock.Anything, jobID).Return(want, nil)

	got, err := f.service.GetImportJob(context.Background(), jobID)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCancelImport_QueuedJob(t *testing.T) {
	f := newServiceFixture()
	jobID := uuid.New()
	f.jobs.On("GetByID", mock.Anything, jobID).
		Return(&domain.ImportJob{ID: jobID, Status: domain.ImportStatusQueued}, nil)
	f.jobs.On("DeleteQueued", mock.Anything, jobID).Return(nil)

	err := f.service.CancelImport(context.Background(), jobID)

	require.NoError(t, err)
	f.jobs.AssertCalled(t, "DeleteQueued", mock.Anything, jobID)
}

func TestCancelImport_AlreadyProcessing(t *testing.T) {
	f := newServiceFixture()
	jobID := uuid.New()
	f.jobs.On("GetByID", mock.Anything, jobID).
		Return(&domain.ImportJob{ID: jobID, Status: domain.ImportStatusProcessing}, nil)

	err := f.service.CancelImport(context.Background(), jobID)

	assert.ErrorIs(t, err, domain.ErrImportJobNotQueued)
	f.jobs.AssertNotCalled(t, "DeleteQueued", mock.Anything, mock.Anything)
}

func TestCancelImport_ClaimedBetweenCheckAndDelete(t *testing.T) {
	f := newServiceFixture()
	jobID := uuid.New()
	f.jobs.On("GetByID", mock.Anything, jobID).
		Return(&domain.ImportJob{ID: jobID, Status: domain.ImportStatusQueued}, nil)
	f.jobs.On("DeleteQueued", mock.Anything, jobID).
		Return(domain.ErrImportJobNotQueued)

	err := f.service.CancelImport(context.Background(), jobID)

	assert.ErrorIs(t, err, domain.ErrImportJobNotQueued)
}

func TestCancelImport_NotFound(t *testing.T) {
	f := newServiceFixture()
	jobID := uuid.New()
	f.jobs.On("GetByID", mock.Anything, jobID).
		Return(nil, domain.ErrImportJobNotFound)

	err := f.service.CancelImport(context.Background(), jobID)

	assert.ErrorIs(t, err, domain.ErrImportJobNotFound)
}
