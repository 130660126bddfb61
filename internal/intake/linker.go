package intake

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"noteflow/internal/port"
)

// Linker attaches extracted sessions to pre-existing calendar
// appointments within a time window. Linking never crosses client
// boundaries: only the resolved client's own appointments are considered.
type Linker struct {
	appointments port.AppointmentStore
	window       time.Duration
}

// NewLinker creates a Linker with the given link window.
func NewLinker(appointments port.AppointmentStore, window time.Duration) *Linker {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Linker{appointments: appointments, window: window}
}

// Link attaches each session of a resolved client to the first appointment
// (in store iteration order) whose start time falls within the window of
// the session date. Sessions with an unknown date, or with no qualifying
// appointment, stay standalone. A store failure leaves every session
// standalone and reports the error; it never aborts the run.
func (l *Linker) Link(ctx context.Context, clientID uuid.UUID, sessions []ExtractedSession) ([]LinkedSession, error) {
	linked := make([]LinkedSession, 0, len(sessions))

	needsLookup := false
	for i := range sessions {
		if sessions[i].NormalizedDate != UnknownDate {
			needsLookup = true
			break
		}
	}

	if !needsLookup {
		for _, s := range sessions {
			linked = append(linked, LinkedSession{ExtractedSession: s, Standalone: true})
		}
		return linked, nil
	}

	appts, err := l.appointments.GetAppointmentsByClient(ctx, clientID)
	if err != nil {
		for _, s := range sessions {
			linked = append(linked, LinkedSession{ExtractedSession: s, Standalone: true})
		}
		return linked, fmt.Errorf("fetching appointments for client %s: %w", clientID, err)
	}

	for _, s := range sessions {
		ls := LinkedSession{ExtractedSession: s, Standalone: true}

		if date, ok := ParseNormalizedDate(s.NormalizedDate); ok {
			for i := range appts {
				delta := appts[i].StartTime.Sub(date)
				if delta < 0 {
					delta = -delta
				}
				if delta <= l.window {
					id := appts[i].ID
					ls.AppointmentID = &id
					ls.ExternalEventID = appts[i].GoogleEventID
					ls.Standalone = false
					log.Printf("intake.Linker: session %d (%s) linked to appointment %s",
						s.SessionNumber, s.NormalizedDate, id)
					break
				}
			}
		}

		linked = append(linked, ls)
	}
	return linked, nil
}
