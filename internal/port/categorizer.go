package port

import "context"

// Categorization is the AI-derived classification for an imported document.
type Categorization struct {
	Category string
	Tags     []string
}

// DocumentCategorizer abstracts the document categorization collaborator
// consumed during materialization.
type DocumentCategorizer interface {
	Categorize(ctx context.Context, text string) (*Categorization, error)
}
