package intake

import (
	"context"
	"fmt"
	"log"

	"noteflow/internal/port"
)

const (
	truncationMarker   = "\n\n[content truncated for processing]"
	placeholderContent = "Session content not provided"
	placeholderSummary = "Clinical session documented"
)

// Extractor drives the text-understanding service for one client section
// and validates and normalizes its output.
type Extractor struct {
	understander    port.SessionUnderstander
	maxSectionChars int
}

// NewExtractor creates an Extractor with the given per-call payload budget.
func NewExtractor(understander port.SessionUnderstander, maxSectionChars int) *Extractor {
	if maxSectionChars <= 0 {
		maxSectionChars = 12000
	}
	return &Extractor{understander: understander, maxSectionChars: maxSectionChars}
}

// ExtractSection sends one client's section to the understanding service
// and returns the normalized result. The supplied identity always
// overrides whatever the service echoes back; session numbers are
// backfilled from position, dates normalized, and missing content fields
// defaulted. Any error is a recoverable per-client failure for the caller.
func (e *Extractor) ExtractSection(ctx context.Context, entry ClientIndexEntry, section string) (*ExtractedClient, error) {
	out, err := e.understander.ExtractSessions(ctx, port.UnderstandInput{
		ClientName:  entry.Name,
		FirstName:   entry.FirstName,
		LastName:    entry.LastName,
		SectionText: e.truncate(section),
	})
	if err != nil {
		return nil, fmt.Errorf("understanding section for %s: %w", entry.Name, err)
	}

	client := e.normalize(entry, out)
	if len(client.Sessions) == 0 {
		return nil, fmt.Errorf("no sessions extracted for %s", entry.Name)
	}
	if len(client.Sessions) != entry.ExpectedSessionCount {
		log.Printf("intake.Extractor: %s yielded %d sessions, index expected %d",
			entry.Name, len(client.Sessions), entry.ExpectedSessionCount)
	}
	return client, nil
}

// ExtractChunk runs the simplified chunk-mode contract for one candidate
// section found without an index. Failures are isolated per chunk.
func (e *Extractor) ExtractChunk(ctx context.Context, chunk ChunkSection) (*ExtractedClient, error) {
	first, last := SplitName(chunk.Name)
	out, err := e.understander.ExtractSessions(ctx, port.UnderstandInput{
		ClientName:  chunk.Name,
		FirstName:   first,
		LastName:    last,
		SectionText: e.truncate(chunk.Text),
		ChunkMode:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("understanding chunk for %s: %w", chunk.Name, err)
	}

	entry := ClientIndexEntry{Name: chunk.Name, FirstName: first, LastName: last}
	client := e.normalize(entry, out)
	if len(client.Sessions) == 0 {
		return nil, fmt.Errorf("no sessions extracted for chunk %s", chunk.Name)
	}
	return client, nil
}

// truncate enforces the collaborator's input limit, appending a marker so
// the model knows the section was cut. Oversized input is truncated, never
// retried as-is.
func (e *Extractor) truncate(section string) string {
	if len(section) <= e.maxSectionChars {
		return section
	}
	return section[:e.maxSectionChars] + truncationMarker
}

// normalize applies the post-response rules: the originally supplied
// identity wins over the collaborator's echo, session numbers are
// backfilled from array position, dates are normalized, and empty content
// fields get explicit placeholders.
func (e *Extractor) normalize(entry ClientIndexEntry, out *port.UnderstandOutput) *ExtractedClient {
	client := &ExtractedClient{
		Name:      entry.Name,
		FirstName: entry.FirstName,
		LastName:  entry.LastName,
	}

	for i, s := range out.Sessions {
		num := s.SessionNumber
		if num <= 0 {
			num = i + 1
		}
		content := s.Content
		if content == "" {
			content = placeholderContent
		}
		summary := s.NarrativeSummary
		if summary == "" {
			summary = placeholderSummary
		}
		client.Sessions = append(client.Sessions, ExtractedSession{
			SessionNumber:     num,
			RawDateText:       s.SessionDate,
			NormalizedDate:    NormalizeDate(s.SessionDate),
			Content:           content,
			Subjective:        s.Subjective,
			Objective:         s.Objective,
			Assessment:        s.Assessment,
			Plan:              s.Plan,
			KeyPoints:         s.KeyPoints,
			SignificantQuotes: s.SignificantQuotes,
			NarrativeSummary:  summary,
		})
	}
	return client
}
