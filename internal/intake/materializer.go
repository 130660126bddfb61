package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"noteflow/internal/domain"
	"noteflow/internal/port"
)

// provenanceTag marks every record created by a document import batch.
const provenanceTag = "comprehensive-document"

// Materializer persists session notes and document metadata for resolved
// clients only.
type Materializer struct {
	notes       port.SessionNoteStore
	documents   port.DocumentStore
	categorizer port.DocumentCategorizer
}

// NewMaterializer creates a Materializer.
func NewMaterializer(notes port.SessionNoteStore, documents port.DocumentStore, categorizer port.DocumentCategorizer) *Materializer {
	return &Materializer{notes: notes, documents: documents, categorizer: categorizer}
}

// MaterializeSessions persists one note per linked session for a matched
// client, carrying provenance tags. Individual failures are recorded and
// do not stop the remaining sessions. Returns the number of notes created.
func (m *Materializer) MaterializeSessions(ctx context.Context, therapistID uuid.UUID, match ClientMatch, sessions []LinkedSession) (int, []ProcessingError) {
	if match.Matched == nil {
		return 0, nil
	}

	importTag := "imported-" + time.Now().UTC().Format("2006-01-02")
	created := 0
	var errs []ProcessingError

	for _, s := range sessions {
		note := m.buildNote(therapistID, match.Matched.ID, match.Extracted.Name, s, importTag)
		if err := m.notes.CreateSessionNote(ctx, note); err != nil {
			log.Printf("intake.Materializer: failed to create note (session %d) for %s: %v",
				s.SessionNumber, match.Extracted.Name, err)
			errs = append(errs, ProcessingError{
				Stage:   StageMaterialization,
				Client:  match.Extracted.Name,
				Message: fmt.Sprintf("session %d: %v", s.SessionNumber, err),
			})
			continue
		}
		created++
	}
	return created, errs
}

// MaterializeDocument creates exactly one document metadata record for a
// matched client, carrying categorization from the categorization
// collaborator. One document row fans out to that client's session notes.
func (m *Materializer) MaterializeDocument(ctx context.Context, therapistID uuid.UUID, filePath string, match ClientMatch) error {
	if match.Matched == nil {
		return nil
	}

	category := domain.CategoryProgressNotes
	tags := []string{provenanceTag}
	if m.categorizer != nil {
		if cat, err := m.categorizer.Categorize(ctx, combinedContent(match.Extracted)); err != nil {
			log.Printf("intake.Materializer: categorization failed for %s: %v", match.Extracted.Name, err)
		} else {
			category = cat.Category
			tags = append(tags, cat.Tags...)
		}
	}

	tagsJSON, _ := json.Marshal(tags)
	doc := &domain.DocumentRecord{
		ID:           uuid.New(),
		TherapistID:  therapistID,
		ClientID:     match.Matched.ID,
		FileName:     filepath.Base(filePath),
		FilePath:     filePath,
		Category:     category,
		Tags:         tagsJSON,
		SessionCount: len(match.Extracted.Sessions),
	}
	if err := m.documents.CreateDocument(ctx, doc); err != nil {
		return fmt.Errorf("creating document record for %s: %w", match.Extracted.Name, err)
	}
	return nil
}

func (m *Materializer) buildNote(therapistID, clientID uuid.UUID, clientName string, s LinkedSession, importTag string) *domain.SessionNote {
	keyPoints, _ := json.Marshal(orEmpty(s.KeyPoints))
	quotes, _ := json.Marshal(orEmpty(s.SignificantQuotes))
	tags, _ := json.Marshal([]string{importTag, provenanceTag})

	note := &domain.SessionNote{
		ID:                uuid.New(),
		ClientID:          clientID,
		TherapistID:       therapistID,
		AppointmentID:     s.AppointmentID,
		Title:             noteTitle(clientName, s),
		Content:           s.Content,
		Subjective:        s.Subjective,
		Objective:         s.Objective,
		Assessment:        s.Assessment,
		Plan:              s.Plan,
		KeyPoints:         keyPoints,
		SignificantQuotes: quotes,
		NarrativeSummary:  s.NarrativeSummary,
		Tags:              tags,
	}
	if date, ok := ParseNormalizedDate(s.NormalizedDate); ok {
		note.SessionDate = &date
	}
	return note
}

func noteTitle(clientName string, s LinkedSession) string {
	date := s.NormalizedDate
	if date == UnknownDate {
		date = "undated"
	}
	return fmt.Sprintf("Clinical Progress Note - %s - %s", clientName, date)
}

func combinedContent(c ExtractedClient) string {
	var b strings.Builder
	for i := range c.Sessions {
		b.WriteString(c.Sessions[i].Content)
		b.WriteString("\n")
	}
	return b.String()
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
