package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"noteflow/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Title",
	"Session Date",
	"Linked Appointment",
	"Subjective",
	"Objective",
	"Assessment",
	"Plan",
	"Key Points",
	"Significant Quotes",
	"Narrative Summary",
	"Tags",
	"Created At",
}

// Writer wraps csv.Writer for exporting session notes as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteNotes converts a batch of session notes to CSV rows and writes them.
func (w *Writer) WriteNotes(notes []domain.SessionNote) error {
	for i := range notes {
		row := noteToRow(&notes[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// noteToRow converts a single session note to a string slice matching columns.
func noteToRow(note *domain.SessionNote) []string {
	row := make([]string, len(columns))

	row[0] = note.Title
	row[1] = formatDate(note.SessionDate)
	if note.AppointmentID != nil {
		row[2] = note.AppointmentID.String()
	}
	row[3] = note.Subjective
	row[4] = note.Objective
	row[5] = note.Assessment
	row[6] = note.Plan
	row[7] = joinJSONList(note.KeyPoints)
	row[8] = joinJSONList(note.SignificantQuotes)
	row[9] = note.NarrativeSummary
	row[10] = joinJSONList(note.Tags)
	row[11] = note.CreatedAt.Format(time.RFC3339)

	return row
}

// joinJSONList renders a JSON string array as a semicolon-separated cell.
// Invalid or empty JSON renders as an empty cell.
func joinJSONList(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	return strings.Join(items, "; ")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a client name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_client_name}_notes_{YYYY-MM-DD}.csv
func BuildFilename(clientName string) string {
	sanitized := SanitizeFilename(clientName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_notes_%s.csv", sanitized, date)
}
