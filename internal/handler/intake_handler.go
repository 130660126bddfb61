package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"noteflow/internal/service"
)

// IntakeHandler handles document intake endpoints.
type IntakeHandler struct {
	intakeService service.IntakeService
}

// NewIntakeHandler creates a new IntakeHandler.
func NewIntakeHandler(intakeService service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

type processDocumentRequest struct {
	TherapistID string `json:"therapist_id" binding:"required"`
	FilePath    string `json:"file_path" binding:"required"`
}

func (r *processDocumentRequest) toInput() (*service.ProcessDocumentInput, error) {
	therapistID, err := uuid.Parse(r.TherapistID)
	if err != nil {
		return nil, err
	}
	return &service.ProcessDocumentInput{
		TherapistID: therapistID,
		FilePath:    r.FilePath,
	}, nil
}

// Process handles POST /api/v1/intake/process. It runs the full pipeline
// synchronously and returns the processing report.
func (h *IntakeHandler) Process(c *gin.Context) {
	var req processDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	input, err := req.toInput()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "therapist_id must be a valid UUID")
		return
	}

	result, err := h.intakeService.ProcessDocument(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Enqueue handles POST /api/v1/intake/imports. It queues a background import
// job and returns it immediately.
func (h *IntakeHandler) Enqueue(c *gin.Context) {
	var req processDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	input, err := req.toInput()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "therapist_id must be a valid UUID")
		return
	}

	job, err := h.intakeService.EnqueueImport(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, job)
}

// CancelImport handles DELETE /api/v1/intake/imports/:id. Only jobs still
// waiting in the queue can be cancelled.
func (h *IntakeHandler) CancelImport(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return
	}

	if err := h.intakeService.CancelImport(c.Request.Context(), jobID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"id": jobID, "cancelled": true})
}

// GetImport handles GET /api/v1/intake/imports/:id
func (h *IntakeHandler) GetImport(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return
	}

	job, err := h.intakeService.GetImportJob(c.Request.Context(), jobID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, job)
}
