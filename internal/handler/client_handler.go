package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"noteflow/internal/intake"
	"noteflow/internal/port"
)

// ClientHandler handles roster client endpoints.
type ClientHandler struct {
	roster port.RosterStore
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(roster port.RosterStore) *ClientHandler {
	return &ClientHandler{roster: roster}
}

// Search handles GET /api/v1/clients/search. It matches an unstructured name
// query against the therapist's roster, tolerating nicknames and partial
// names.
func (h *ClientHandler) Search(c *gin.Context) {
	therapistID, err := uuid.Parse(c.Query("therapist_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "therapist_id must be a valid UUID")
		return
	}
	query := c.Query("q")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "q is required")
		return
	}

	roster, err := h.roster.GetClients(c.Request.Context(), therapistID)
	if err != nil {
		HandleError(c, err)
		return
	}

	matches := intake.LookupByFreeText(query, roster)
	RespondOK(c, matches)
}
