package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"noteflow/internal/csvexport"
	"noteflow/internal/port"
)

const (
	exportPageSize   = 200
	defaultListLimit = 50
	maxListLimit     = 200
)

// NotesHandler handles session note listing and export endpoints.
type NotesHandler struct {
	roster port.RosterStore
	notes  port.SessionNoteStore
}

// NewNotesHandler creates a new NotesHandler.
func NewNotesHandler(roster port.RosterStore, notes port.SessionNoteStore) *NotesHandler {
	return &NotesHandler{roster: roster, notes: notes}
}

// List handles GET /api/v1/clients/:id/notes. It returns one page of the
// client's session notes with pagination metadata.
func (h *NotesHandler) List(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}

	if _, err := h.roster.GetByID(c.Request.Context(), clientID); err != nil {
		HandleError(c, err)
		return
	}

	notes, total, err := h.notes.ListByClient(c.Request.Context(), clientID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, notes, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ExportCSV handles GET /api/v1/clients/:id/notes/export/csv. It streams the
// client's session notes as a CSV download.
func (h *NotesHandler) ExportCSV(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return
	}

	client, err := h.roster.GetByID(c.Request.Context(), clientID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", csvexport.BuildFilename(client.FullName())))
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}

	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}

	offset := 0
	for {
		notes, total, err := h.notes.ListByClient(c.Request.Context(), clientID, offset, exportPageSize)
		if err != nil {
			// Headers already sent; truncate the stream
			return
		}
		if err := w.WriteNotes(notes); err != nil {
			return
		}
		offset += len(notes)
		if offset >= total || len(notes) == 0 {
			break
		}
	}
	w.Flush()
}
