package port

import (
	"context"
	"io"
)

// UploadInput carries the data needed to upload an object.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
}

// UploadOutput contains the result of an object upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts blob storage for source documents.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
}
