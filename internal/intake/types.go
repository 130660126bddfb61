// Package intake implements the clinical document intake pipeline:
// structural segmentation of a document into per-client sections, session
// extraction through the text-understanding service, date normalization,
// roster resolution, appointment linkage, and materialization of the
// resulting session and document records.
package intake

import (
	"github.com/google/uuid"

	"noteflow/internal/domain"
)

// ClientIndexEntry is one entry of a document's explicit client index:
// a name plus the number of sessions the document claims for that client.
// FromIndex is false for entries produced by the single-client fallback
// heuristics; only those may treat the whole document as their section.
type ClientIndexEntry struct {
	Name                 string
	FirstName            string
	LastName             string
	ExpectedSessionCount int
	FromIndex            bool
}

// ExtractedSession is one normalized session pulled out of a client's
// document section. NormalizedDate is either a valid YYYY-MM-DD date or
// the UnknownDate sentinel.
type ExtractedSession struct {
	SessionNumber     int      `json:"session_number"`
	RawDateText       string   `json:"raw_date_text"`
	NormalizedDate    string   `json:"normalized_date"`
	Content           string   `json:"content"`
	Subjective        string   `json:"subjective,omitempty"`
	Objective         string   `json:"objective,omitempty"`
	Assessment        string   `json:"assessment,omitempty"`
	Plan              string   `json:"plan,omitempty"`
	KeyPoints         []string `json:"key_points,omitempty"`
	SignificantQuotes []string `json:"significant_quotes,omitempty"`
	NarrativeSummary  string   `json:"narrative_summary"`
}

// ExtractedClient is one client's identity plus their extracted sessions.
// Clients with no sessions are dropped before resolution.
type ExtractedClient struct {
	Name      string             `json:"name"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	Sessions  []ExtractedSession `json:"sessions"`
}

// MatchType classifies how an extracted identity was resolved against the
// roster.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
	MatchNone  MatchType = "none"
)

// ClientMatch is the resolution outcome for one extracted client.
// MatchExact implies Confidence == 1.0; MatchNone implies Matched == nil.
type ClientMatch struct {
	Extracted  ExtractedClient `json:"extracted"`
	Matched    *domain.Client  `json:"matched,omitempty"`
	Confidence float64         `json:"confidence"`
	MatchType  MatchType       `json:"match_type"`
}

// LinkedSession is an extracted session after appointment linkage.
// AppointmentID is set only when an appointment for the same client falls
// within the link window of the session date; otherwise the session is
// standalone.
type LinkedSession struct {
	ExtractedSession
	AppointmentID   *uuid.UUID `json:"appointment_id,omitempty"`
	ExternalEventID string     `json:"external_event_id,omitempty"`
	Standalone      bool       `json:"standalone"`
}

// Stage identifies the pipeline stage an error was recovered in.
type Stage string

const (
	StageSegmentation    Stage = "segmentation"
	StageUnderstanding   Stage = "understanding"
	StageResolution      Stage = "resolution"
	StageLinking         Stage = "linking"
	StageMaterialization Stage = "materialization"
)

// ProcessingError is a recovered per-client or per-session failure carried
// into the aggregate report.
type ProcessingError struct {
	Stage   Stage  `json:"stage"`
	Client  string `json:"client,omitempty"`
	Message string `json:"message"`
}

// ProcessingResult is the aggregate report for one document run. It is
// always returned when any per-client progress occurred, even partial.
type ProcessingResult struct {
	TotalClients         int               `json:"total_clients"`
	TotalSessions        int               `json:"total_sessions"`
	SuccessfulMatches    int               `json:"successful_matches"`
	CreatedProgressNotes int               `json:"created_progress_notes"`
	StoredDocuments      int               `json:"stored_documents"`
	ProcessingDetails    []ClientMatch     `json:"processing_details"`
	Errors               []ProcessingError `json:"errors"`
}
