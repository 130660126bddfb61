package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrClientNotFound      = errors.New("client not found")
	ErrTherapistNotFound   = errors.New("therapist not found")
	ErrImportJobNotFound   = errors.New("import job not found")
	ErrTherapistInactive   = errors.New("therapist is inactive")
	ErrDocumentEmpty       = errors.New("document is empty")
	ErrDocumentTooLarge    = errors.New("document exceeds maximum allowed size")
	ErrDocumentUnreadable  = errors.New("document produced no readable text")
	ErrImportJobNotQueued  = errors.New("import job is not in queued state")
	ErrDuplicateImportJob  = errors.New("import job already exists for this file")
	ErrUnsupportedFilePath = errors.New("unsupported file path scheme")
)
