package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"noteflow/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "CLIENT_NOT_FOUND", "client not found"
	case errors.Is(err, domain.ErrTherapistNotFound):
		return http.StatusNotFound, "THERAPIST_NOT_FOUND", "therapist not found"
	case errors.Is(err, domain.ErrTherapistInactive):
		return http.StatusForbidden, "THERAPIST_INACTIVE", "therapist is inactive"
	case errors.Is(err, domain.ErrImportJobNotFound):
		return http.StatusNotFound, "IMPORT_JOB_NOT_FOUND", "import job not found"
	case errors.Is(err, domain.ErrImportJobNotQueued):
		return http.StatusConflict, "IMPORT_JOB_NOT_QUEUED", "import job is no longer queued"
	case errors.Is(err, domain.ErrDuplicateImportJob):
		return http.StatusConflict, "DUPLICATE_IMPORT_JOB", "an import job already exists for this file"
	case errors.Is(err, domain.ErrDocumentEmpty):
		return http.StatusBadRequest, "DOCUMENT_EMPTY", "document is empty"
	case errors.Is(err, domain.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge, "DOCUMENT_TOO_LARGE", "document exceeds maximum allowed size"
	case errors.Is(err, domain.ErrDocumentUnreadable):
		return http.StatusUnprocessableEntity, "DOCUMENT_UNREADABLE", "document produced no readable text"
	case errors.Is(err, domain.ErrUnsupportedFilePath):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_PATH", "unsupported file path; use a local path or s3:// URI"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
