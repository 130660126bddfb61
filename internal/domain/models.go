package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Therapist represents the owner of a client roster.
type Therapist struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Client represents a roster client belonging to a therapist.
type Client struct {
	ID          uuid.UUID `db:"id" json:"id"`
	TherapistID uuid.UUID `db:"therapist_id" json:"therapist_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// FullName returns the client's full name as stored on the roster.
func (c *Client) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Appointment represents a calendar appointment for a client.
type Appointment struct {
	ID            uuid.UUID         `db:"id" json:"id"`
	ClientID      uuid.UUID         `db:"client_id" json:"client_id"`
	TherapistID   uuid.UUID         `db:"therapist_id" json:"therapist_id"`
	StartTime     time.Time         `db:"start_time" json:"start_time"`
	EndTime       time.Time         `db:"end_time" json:"end_time"`
	Type          string            `db:"type" json:"type"`
	Status        AppointmentStatus `db:"status" json:"status"`
	GoogleEventID string            `db:"google_event_id" json:"google_event_id"`
	Location      string            `db:"location" json:"location"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}

// SessionNote represents a persisted clinical progress note.
type SessionNote struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	ClientID          uuid.UUID       `db:"client_id" json:"client_id"`
	TherapistID       uuid.UUID       `db:"therapist_id" json:"therapist_id"`
	AppointmentID     *uuid.UUID      `db:"appointment_id" json:"appointment_id"`
	Title             string          `db:"title" json:"title"`
	Content           string          `db:"content" json:"content"`
	Subjective        string          `db:"subjective" json:"subjective"`
	Objective         string          `db:"objective" json:"objective"`
	Assessment        string          `db:"assessment" json:"assessment"`
	Plan              string          `db:"plan" json:"plan"`
	KeyPoints         json.RawMessage `db:"key_points" json:"key_points"`
	SignificantQuotes json.RawMessage `db:"significant_quotes" json:"significant_quotes"`
	NarrativeSummary  string          `db:"narrative_summary" json:"narrative_summary"`
	Tags              json.RawMessage `db:"tags" json:"tags"`
	SessionDate       *time.Time      `db:"session_date" json:"session_date"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// DocumentRecord represents metadata for an imported clinical document,
// linked to the client it was filed under. One record per matched client,
// fanning out to that client's imported session notes.
type DocumentRecord struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	TherapistID  uuid.UUID       `db:"therapist_id" json:"therapist_id"`
	ClientID     uuid.UUID       `db:"client_id" json:"client_id"`
	FileName     string          `db:"file_name" json:"file_name"`
	FilePath     string          `db:"file_path" json:"file_path"`
	Category     string          `db:"category" json:"category"`
	Tags         json.RawMessage `db:"tags" json:"tags"`
	SessionCount int             `db:"session_count" json:"session_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// ImportJob represents a queued document import request.
type ImportJob struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	TherapistID uuid.UUID       `db:"therapist_id" json:"therapist_id"`
	FilePath    string          `db:"file_path" json:"file_path"`
	Status      ImportStatus    `db:"status" json:"status"`
	Attempts    int             `db:"attempts" json:"attempts"`
	Result      json.RawMessage `db:"result" json:"result"`
	LastError   string          `db:"last_error" json:"last_error"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
