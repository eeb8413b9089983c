// Package drive adapts the external document store. The service keeps binary
// content and basic metadata; the approval engine only consults it to enrich
// records with a display name and to push revised content or signature stamps.
package drive

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when the drive has no object for the given id.
var ErrNotFound = errors.New("drive: file not found")

// Metadata is the subset of drive object metadata the application uses.
type Metadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// SignaturePlacement positions a signature stamp inside the document.
// Coordinates are in document points, width scales the stamp.
type SignaturePlacement struct {
	Page  int     `json:"page"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
}

// Store is the document-store boundary. Implementations must treat every call
// as independent; the engine performs no retries and no compensation.
type Store interface {
	// Upload stores a new object and returns its drive-assigned metadata.
	Upload(ctx context.Context, name, description, mimeType string, content io.Reader) (*Metadata, error)
	// Metadata fetches current metadata for an object.
	Metadata(ctx context.Context, fileID string) (*Metadata, error)
	// UpdateContent replaces an object's content, keeping its id.
	UpdateContent(ctx context.Context, fileID, name, mimeType string, content io.Reader) (*Metadata, error)
	// StampSignature renders the PNG signature onto the stored document.
	StampSignature(ctx context.Context, fileID string, signaturePNG []byte, placement SignaturePlacement) error
}
