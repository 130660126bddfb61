package intake

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"noteflow/internal/domain"
	"noteflow/internal/port"
	"noteflow/mocks"
)

type pipelineFixture struct {
	understander *mocks.MockSessionUnderstander
	roster       *mocks.MockRosterStore
	appointments *mocks.MockAppointmentStore
	notes        *mocks.MockSessionNoteStore
	documents    *mocks.MockDocumentStore
	pipeline     *Pipeline
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		understander: new(mocks.MockSessionUnderstander),
		roster:       new(mocks.MockRosterStore),
		appointments: new(mocks.MockAppointmentStore),
		notes:        new(mocks.MockSessionNoteStore),
		documents:    new(mocks.MockDocumentStore),
	}
	f.pipeline = NewPipeline(
		NewSegmenter(50),
		NewExtractor(f.understander, 0),
		NewResolver(0.8),
		NewLinker(f.appointments, 24*time.Hour),
		NewMaterializer(f.notes, f.documents, nil),
		f.roster,
		1,
	)
	return f
}

func (f *pipelineFixture) understandsClient(name string, sessions ...port.UnderstoodSession) {
	f.understander.On("ExtractSessions", mock.Anything, mock.MatchedBy(func(in port.UnderstandInput) bool {
		return in.ClientName == name
	})).Return(&port.UnderstandOutput{Name: name, Sessions: sessions}, nil)
}

func TestProcess_IndexedMultiClientDocument(t *testing.T) {
	f := newPipelineFixture()
	therapistID := uuid.New()

	sarah := rosterClient("Sarah", "Johnson")
	michael := rosterClient("Michael", "Smith")
	f.roster.On("GetClients", mock.Anything, therapistID).
		Return([]domain.Client{sarah, michael}, nil)

	f.understandsClient("Sarah Johnson",
		port.UnderstoodSession{SessionDate: "2025-07-01", Content: "Session one."},
		port.UnderstoodSession{SessionDate: "2025-07-08", Content: "Session two."},
	)
	var michaelInput port.UnderstandInput
	f.understander.On("ExtractSessions", mock.Anything, mock.MatchedBy(func(in port.UnderstandInput) bool {
		if in.ClientName != "Michael Smith" {
			return false
		}
		michaelInput = in
		return true
	})).Return(&port.UnderstandOutput{
		Name:     "Michael Smith",
		Sessions: []port.UnderstoodSession{{SessionDate: "2025-07-02", Content: "Intake."}},
	}, nil)

	appt := appointmentAt(sarah.ID, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC))
	f.appointments.On("GetAppointmentsByClient", mock.Anything, sarah.ID).
		Return([]domain.Appointment{appt}, nil)
	f.appointments.On("GetAppointmentsByClient", mock.Anything, michael.ID).
		Return([]domain.Appointment{}, nil)

	var savedNotes []*domain.SessionNote
	f.notes.On("CreateSessionNote", mock.Anything, mock.MatchedBy(func(n *domain.SessionNote) bool {
		savedNotes = append(savedNotes, n)
		return true
	})).Return(nil)
	f.documents.On("CreateDocument", mock.Anything, mock.Anything).Return(nil)

	result, err := f.pipeline.Process(context.Background(), therapistID, "notes.txt", multiClientDocument)

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalClients)
	assert.Equal(t, 3, result.TotalSessions)
	assert.Equal(t, 2, result.SuccessfulMatches)
	assert.Equal(t, 3, result.CreatedProgressNotes)
	assert.Equal(t, 2, result.StoredDocuments)
	assert.Empty(t, result.Errors)

	// Details follow index order.
	require.Len(t, result.ProcessingDetails, 2)
	assert.Equal(t, "Sarah Johnson", result.ProcessingDetails[0].Extracted.Name)
	assert.Equal(t, MatchExact, result.ProcessingDetails[0].MatchType)
	assert.Equal(t, "Michael Smith", result.ProcessingDetails[1].Extracted.Name)

	// Michael's single-session index entry still gets only his own slice.
	assert.True(t, strings.HasPrefix(michaelInput.SectionText, "Michael Smith"))
	assert.NotContains(t, michaelInput.SectionText, "Client Index")
	assert.NotContains(t, michaelInput.SectionText, "Discussed anxiety management")

	// Sarah's first session fell inside the appointment window.
	require.Len(t, savedNotes, 3)
	assert.NotNil(t, savedNotes[0].AppointmentID)
	assert.Nil(t, savedNotes[1].AppointmentID)
	assert.Nil(t, savedNotes[2].AppointmentID)
}

func TestProcess_ChunkFallback(t *testing.T) {
	f := newPipelineFixture()
	therapistID := uuid.New()

	sarah := rosterClient("Sarah", "Johnson")
	f.roster.On("GetClients", mock.Anything, therapistID).
		Return([]domain.Client{sarah}, nil)

	text := "Unstructured preamble without an index.\n\n" +
		"Sarah Johnson\nSession 1: 2025-07-01\nDetailed clinical narrative long enough to keep.\n"

	var captured port.UnderstandInput
	f.understander.On("ExtractSessions", mock.Anything, mock.MatchedBy(func(in port.UnderstandInput) bool {
		captured = in
		return true
	})).Return(&port.UnderstandOutput{
		Sessions: []port.UnderstoodSession{{SessionDate: "2025-07-01", Content: "Narrative."}},
	}, nil)

	f.appointments.On("GetAppointmentsByClient", mock.Anything, sarah.ID).
		Return([]domain.Appointment{}, nil)
	f.notes.On("CreateSessionNote", mock.Anything, mock.Anything).Return(nil)
	f.documents.On("CreateDocument", mock.Anything, mock.Anything).Return(nil)

	result, err := f.pipeline.Process(context.Background(), therapistID, "notes.txt", text)

	require.NoError(t, err)
	assert.True(t, captured.ChunkMode)
	assert.Equal(t, "Sarah Johnson", captured.ClientName)
	assert.Equal(t, 1, result.TotalClients)
	assert.Equal(t, 1, result.SuccessfulMatches)
	assert.Equal(t, 1, result.CreatedProgressNotes)
}

func TestProcess_ExtractionFailureIsIsolated(t *testing.T) {
	f := newPipelineFixture()
	therapistID := uuid.New()

	sarah := rosterClient("Sarah", "Johnson")
	michael := rosterClient("Michael", "Smith")
	f.roster.On("GetClients", mock.Anything, therapistID).
		Return([]domain.Client{sarah, michael}, nil)

	f.understander.On("ExtractSessions", mock.Anything, mock.MatchedBy(func(in port.UnderstandInput) bool {
		return in.ClientName == "Sarah Johnson"
	})).Return(nil, assert.AnError)
	f.understandsClient("Michael Smith",
		port.UnderstoodSession{SessionDate: "2025-07-02", Content: "Intake."},
	)

	f.appointments.On("GetAppointmentsByClient", mock.Anything, michael.ID).
		Return([]domain.Appointment{}, nil)
	f.notes.On("CreateSessionNote", mock.Anything, mock.Anything).Return(nil)
	f.documents.On("CreateDocument", mock.Anything, mock.Anything).Return(nil)

	result, err := f.pipeline.Process(context.Background(), therapistID, "notes.txt", multiClientDocument)

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalClients)
	assert.Equal(t, 1, result.SuccessfulMatches)
	assert.Equal(t, 1, result.CreatedProgressNotes)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, StageUnderstanding, result.Errors[0].Stage)
	assert.Equal(t, "Sarah Johnson", result.Errors[0].Client)

	require.Len(t, result.ProcessingDetails, 1)
	assert.Equal(t, "Michael Smith", result.ProcessingDetails[0].Extracted.Name)
}

func TestProcess_UnmatchedClientHasNoWrites(t *testing.T) {
	f := newPipelineFixture()
	therapistID := uuid.New()

	// Roster contains only Michael; Sarah resolves to none.
	michael := rosterClient("Michael", "Smith")
	f.roster.On("GetClients", mock.Anything, therapistID).
		Return([]domain.Client{michael}, nil)

	f.understandsClient("Sarah Johnson",
		port.UnderstoodSession{SessionDate: "2025-07-01", Content: "One."},
		port.UnderstoodSession{SessionDate: "2025-07-08", Content: "Two."},
	)
	f.understandsClient("Michael Smith",
		port.UnderstoodSession{SessionDate: "2025-07-02", Content: "Intake."},
	)

	f.appointments.On("GetAppointmentsByClient", mock.Anything, michael.ID).
		Return([]domain.Appointment{}, nil)
	f.notes.On("CreateSessionNote", mock.Anything, mock.Anything).Return(nil)
	f.documents.On("CreateDocument", mock.Anything, mock.Anything).Return(nil)

	result, err := f.pipeline.Process(context.Background(), therapistID, "notes.txt", multiClientDocument)

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalClients)
	assert.Equal(t, 3, result.TotalSessions)
	assert.Equal(t, 1, result.SuccessfulMatches)
	assert.Equal(t, 1, result.CreatedProgressNotes)
	assert.Equal(t, 1, result.StoredDocuments)

	require.Len(t, result.ProcessingDetails, 2)
	sarahDetail := result.ProcessingDetails[0]
	assert.Equal(t, "Sarah Johnson", sarahDetail.Extracted.Name)
	assert.Equal(t, MatchNone, sarahDetail.MatchType)
	assert.Nil(t, sarahDetail.Matched)

	// Only Michael's session note and document were written.
	f.notes.AssertNumberOfCalls(t, "CreateSessionNote", 1)
	f.documents.AssertNumberOfCalls(t, "CreateDocument", 1)
}

func TestProcess_PartialMaterializationFailure(t *testing.T) {
	f := newPipelineFixture()
	therapistID := uuid.New()

	sarah := rosterClient("Sarah", "Johnson")
	michael := rosterClient("Michael", "Smith")
	f.roster.On("GetClients", mock.Anything, therapistID).
		Return([]domain.Client{sarah, michael}, nil)

	f.understandsClient("Sarah Johnson",
		port.UnderstoodSession{SessionDate: "2025-07-01", Content: "One."},
		port.UnderstoodSession{SessionDate: "2025-07-08", Content: "Two."},
	)
	f.understandsClient("Michael Smith",
		port.UnderstoodSession{SessionDate: "2025-07-02", Content: "Intake."},
	)

	f.appointments.On("GetAppointmentsByClient", mock.Anything, mock.Anything).
		Return([]domain.Appointment{}, nil)

	// Sarah's second note fails to persist; everything else succeeds.
	f.notes.On("CreateSessionNote", mock.Anything, mock.MatchedBy(func(n *domain.SessionNote) bool {
		return n.Content == "Two."
	})).Return(assert.AnError)
	f.notes.On("CreateSessionNote", mock.Anything, mock.Anything).Return(nil)
	f.documents.On("CreateDocument", mock.Anything, mock.Anything).Return(nil)

	result, err := f.pipeline.Process(context.Background(), therapistID, "notes.txt", multiClientDocument)

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalClients)
	assert.Equal(t, 2, result.SuccessfulMatches)
	assert.Equal(t, 2, result.CreatedProgressNotes)
	assert.Equal(t, 2, result.StoredDocuments)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, StageMaterialization, result.Errors[0].Stage)
	assert.Equal(t, "Sarah Johnson", result.Errors[0].Client)
}

func TestProcess_RosterFetchFailureAborts(t *testing.T) {
	f := newPipelineFixture()
	therapistID := uuid.New()

	f.roster.On("GetClients", mock.Anything, therapistID).Return(nil, assert.AnError)

	result, err := f.pipeline.Process(context.Background(), therapistID, "notes.txt", multiClientDocument)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	f.understander.AssertNotCalled(t, "ExtractSessions", mock.Anything, mock.Anything)
}

func TestProcess_NoSectionsDiscovered(t *testing.T) {
	f := newPipelineFixture()
	therapistID := uuid.New()

	f.roster.On("GetClients", mock.Anything, therapistID).
		Return([]domain.Client{}, nil)

	result, err := f.pipeline.Process(context.Background(), therapistID, "notes.txt",
		"completely unstructured text with no names anywhere")

	require.NoError(t, err)
	assert.Zero(t, result.TotalClients)
	assert.Empty(t, result.ProcessingDetails)
	f.understander.AssertNotCalled(t, "ExtractSessions", mock.Anything, mock.Anything)
}
