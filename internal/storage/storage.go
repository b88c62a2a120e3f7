package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultPresignedURLExpiry is used when a caller passes a non-positive expiry.
const DefaultPresignedURLExpiry = 15 * time.Minute

// Content types used for stored objects.
const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"
)

// ErrObjectNotFound is returned by GetObject when the key does not exist.
var ErrObjectNotFound = errors.New("object not found in storage")

// FileStorage defines the object storage operations used for model
// artifacts and training datasets.
type FileStorage interface {
	// PutObject stores data under objectKey, replacing any existing object.
	PutObject(ctx context.Context, objectKey string, data []byte, contentType string) error

	// GetObject returns the content of objectKey or ErrObjectNotFound.
	GetObject(ctx context.Context, objectKey string) ([]byte, error)

	// DeleteObject removes an object. Deleting a missing object is not an error.
	DeleteObject(ctx context.Context, objectKey string) error

	// GeneratePresignedUploadURL creates a temporary URL for uploading (PUT).
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL for downloading (GET).
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}
