package intake

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"noteflow/internal/domain"
	"noteflow/internal/port"
)

// Pipeline sequences segmentation, extraction, resolution, linking, and
// materialization with per-client failure isolation. Once per-client work
// has begun the run always completes with a best-effort partial result.
type Pipeline struct {
	segmenter    *Segmenter
	extractor    *Extractor
	resolver     *Resolver
	linker       *Linker
	materializer *Materializer
	roster       port.RosterStore
	concurrency  int
}

// NewPipeline creates a Pipeline. Concurrency bounds the per-client worker
// pool; 1 means fully sequential.
func NewPipeline(
	segmenter *Segmenter,
	extractor *Extractor,
	resolver *Resolver,
	linker *Linker,
	materializer *Materializer,
	roster port.RosterStore,
	concurrency int,
) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		segmenter:    segmenter,
		extractor:    extractor,
		resolver:     resolver,
		linker:       linker,
		materializer: materializer,
		roster:       roster,
		concurrency:  concurrency,
	}
}

// workItem is one client's pending extraction chain, in discovery order.
type workItem struct {
	entry   ClientIndexEntry
	section string
	chunk   *ChunkSection
}

// clientOutcome is the per-client result slot; slots keep discovery order
// regardless of completion order.
type clientOutcome struct {
	match     *ClientMatch
	sessions  int
	notes     int
	docStored bool
	errs      []ProcessingError
}

// Process runs the full pipeline over an extracted document text and
// returns the aggregate report. The returned error is non-nil only for
// failures that occur before any per-client work begins.
func (p *Pipeline) Process(ctx context.Context, therapistID uuid.UUID, filePath, text string) (*ProcessingResult, error) {
	roster, err := p.roster.GetClients(ctx, therapistID)
	if err != nil {
		return nil, fmt.Errorf("fetching roster for therapist %s: %w", therapistID, err)
	}

	result := &ProcessingResult{}
	items, segErrs := p.discover(text)
	result.Errors = append(result.Errors, segErrs...)
	if len(items) == 0 {
		log.Printf("intake.Pipeline: no client sections discovered in document %s", filePath)
		return result, nil
	}

	outcomes := make([]clientOutcome, len(items))

	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup
	for i := range items {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = p.processClient(ctx, therapistID, filePath, items[i], roster)
		}(i)
	}
	wg.Wait()

	for i := range outcomes {
		o := &outcomes[i]
		result.Errors = append(result.Errors, o.errs...)
		if o.match == nil {
			continue
		}
		result.TotalClients++
		result.TotalSessions += o.sessions
		result.CreatedProgressNotes += o.notes
		if o.match.Matched != nil {
			result.SuccessfulMatches++
		}
		if o.docStored {
			result.StoredDocuments++
		}
		result.ProcessingDetails = append(result.ProcessingDetails, *o.match)
	}

	log.Printf("intake.Pipeline: document %s processed: %d clients, %d sessions, %d matched, %d notes, %d errors",
		filePath, result.TotalClients, result.TotalSessions, result.SuccessfulMatches,
		result.CreatedProgressNotes, len(result.Errors))
	return result, nil
}

// discover segments the document into per-client work items, using the
// client index when present and chunk fallback otherwise.
func (p *Pipeline) discover(text string) ([]workItem, []ProcessingError) {
	var items []workItem
	var errs []ProcessingError

	entries := ExtractClientIndex(text)
	if len(entries) == 0 {
		chunks := p.segmenter.ChunkSections(text)
		for i := range chunks {
			items = append(items, workItem{chunk: &chunks[i]})
		}
		return items, nil
	}

	for _, entry := range entries {
		section := p.segmenter.SectionFor(text, entry)
		if section == "" {
			errs = append(errs, ProcessingError{
				Stage:   StageSegmentation,
				Client:  entry.Name,
				Message: "client section not found in document",
			})
			continue
		}
		items = append(items, workItem{entry: entry, section: section})
	}
	return items, errs
}

// processClient runs one client's extraction → resolution → linking →
// materialization chain. Every failure is recovered into the outcome.
func (p *Pipeline) processClient(ctx context.Context, therapistID uuid.UUID, filePath string, item workItem, roster []domain.Client) clientOutcome {
	var o clientOutcome

	var client *ExtractedClient
	var err error
	if item.chunk != nil {
		client, err = p.extractor.ExtractChunk(ctx, *item.chunk)
	} else {
		client, err = p.extractor.ExtractSection(ctx, item.entry, item.section)
	}
	if err != nil {
		name := item.entry.Name
		if item.chunk != nil {
			name = item.chunk.Name
		}
		log.Printf("intake.Pipeline: extraction failed for %s: %v", name, err)
		o.errs = append(o.errs, ProcessingError{Stage: StageUnderstanding, Client: name, Message: err.Error()})
		return o
	}

	match := p.resolver.Resolve(*client, roster)
	o.match = &match
	o.sessions = len(client.Sessions)

	if match.Matched == nil {
		log.Printf("intake.Pipeline: no roster match for %s", client.Name)
		return o
	}

	linked, err := p.linker.Link(ctx, match.Matched.ID, client.Sessions)
	if err != nil {
		o.errs = append(o.errs, ProcessingError{Stage: StageLinking, Client: client.Name, Message: err.Error()})
	}

	notes, matErrs := p.materializer.MaterializeSessions(ctx, therapistID, match, linked)
	o.notes = notes
	o.errs = append(o.errs, matErrs...)

	if err := p.materializer.MaterializeDocument(ctx, therapistID, filePath, match); err != nil {
		o.errs = append(o.errs, ProcessingError{Stage: StageMaterialization, Client: client.Name, Message: err.Error()})
	} else {
		o.docStored = true
	}
	return o
}
