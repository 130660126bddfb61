package port

import "context"

// UnderstandInput carries one client's document section to the
// text-understanding service. Identity fields echo what the segmenter
// discovered; SectionText is already truncated to the payload budget.
type UnderstandInput struct {
	ClientName  string
	FirstName   string
	LastName    string
	SectionText string
	// ChunkMode requests the simplified name+sessions schema used when no
	// client index could be located.
	ChunkMode bool
}

// UnderstoodSession is one session as reported by the understanding
// service, before normalization.
type UnderstoodSession struct {
	SessionNumber     int      `json:"sessionNumber"`
	SessionDate       string   `json:"sessionDate"`
	Content           string   `json:"content"`
	Subjective        string   `json:"subjective,omitempty"`
	Objective         string   `json:"objective,omitempty"`
	Assessment        string   `json:"assessment,omitempty"`
	Plan              string   `json:"plan,omitempty"`
	KeyPoints         []string `json:"keyPoints,omitempty"`
	SignificantQuotes []string `json:"significantQuotes,omitempty"`
	NarrativeSummary  string   `json:"narrativeSummary,omitempty"`
}

// UnderstandOutput is the schema-validated response from the
// text-understanding service.
type UnderstandOutput struct {
	Name      string              `json:"name"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Sessions  []UnderstoodSession `json:"sessions"`
	ModelUsed string              `json:"-"`
}

// SessionUnderstander abstracts the external text-understanding service
// that turns raw section text into structured client/session data.
type SessionUnderstander interface {
	ExtractSessions(ctx context.Context, input UnderstandInput) (*UnderstandOutput, error)
}
