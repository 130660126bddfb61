// Package textextract turns source documents into plain text. Extraction of
// binary formats is delegated to an external HTTP service; plain-text files
// are read directly.
package textextract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"noteflow/internal/config"
	"noteflow/internal/domain"
	"noteflow/internal/port"
)

// Client implements port.TextExtractor. It resolves local paths and s3://
// URIs, applies the whole-document validation gates, and delegates binary
// formats to the extraction service.
type Client struct {
	endpoint     string
	maxFileBytes int64
	minTextChars int
	storage      port.ObjectStorage
	httpClient   *http.Client
}

// NewClient creates a text extraction client. Storage may be nil when s3://
// paths are not in use.
func NewClient(cfg *config.ExtractorConfig, storage port.ObjectStorage) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	maxBytes := cfg.MaxFileSizeMB * 1024 * 1024
	if maxBytes == 0 {
		maxBytes = 50 * 1024 * 1024
	}
	minChars := cfg.MinTextChars
	if minChars == 0 {
		minChars = 50
	}
	return &Client{
		endpoint:     cfg.Endpoint,
		maxFileBytes: maxBytes,
		minTextChars: minChars,
		storage:      storage,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// ExtractText reads the document at filePath and returns its plain text.
// Failures here abort the whole intake run before any per-client work.
func (c *Client) ExtractText(ctx context.Context, filePath string) (string, error) {
	data, err := c.resolve(ctx, filePath)
	if err != nil {
		return "", err
	}

	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", filePath, domain.ErrDocumentEmpty)
	}
	if int64(len(data)) > c.maxFileBytes {
		return "", fmt.Errorf("%s (%d bytes): %w", filePath, len(data), domain.ErrDocumentTooLarge)
	}

	var text string
	if isPlainText(filePath) {
		text = string(data)
	} else {
		text, err = c.extractRemote(ctx, filePath, data)
		if err != nil {
			return "", fmt.Errorf("extracting text from %s: %w", filePath, err)
		}
	}

	if len(strings.TrimSpace(text)) < c.minTextChars {
		return "", fmt.Errorf("%s yielded %d chars: %w", filePath, len(text), domain.ErrDocumentUnreadable)
	}

	log.Printf("textextract.Client: extracted %d chars from %s", len(text), filePath)
	return text, nil
}

// resolve fetches the raw document bytes from local disk or object storage.
func (c *Client) resolve(ctx context.Context, filePath string) ([]byte, error) {
	if bucket, key, ok := splitS3URI(filePath); ok {
		if c.storage == nil {
			return nil, fmt.Errorf("%s: object storage not configured: %w", filePath, domain.ErrUnsupportedFilePath)
		}
		return c.storage.Download(ctx, bucket, key)
	}
	if strings.Contains(filePath, "://") {
		return nil, fmt.Errorf("%s: %w", filePath, domain.ErrUnsupportedFilePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	return data, nil
}

// extractRemote posts the document to the extraction service and returns the
// extracted text.
func (c *Client) extractRemote(ctx context.Context, filePath string, data []byte) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("no extraction endpoint configured for binary format %s", filepath.Ext(filePath))
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("building multipart request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("writing multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling extraction service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extraction service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	return parsed.Text, nil
}

func isPlainText(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".txt", ".md", ".text":
		return true
	}
	return false
}

// splitS3URI splits an s3://bucket/key path into its parts.
func splitS3URI(filePath string) (bucket, key string, ok bool) {
	const prefix = "s3://"
	if !strings.HasPrefix(filePath, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(filePath, prefix)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
