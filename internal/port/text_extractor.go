package port

import "context"

// TextExtractor abstracts the external text-extraction service that turns
// a stored document (PDF/DOCX) into plain text. Implementations surface
// domain.ErrDocumentEmpty, domain.ErrDocumentTooLarge, and
// domain.ErrDocumentUnreadable for unusable inputs; those abort the whole
// run before any per-client work begins.
type TextExtractor interface {
	ExtractText(ctx context.Context, filePath string) (string, error)
}
