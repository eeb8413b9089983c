package drive

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store used by tests and local development when no
// drive service is configured.
type MemStore struct {
	mu      sync.Mutex
	objects map[string]*memObject
}

type memObject struct {
	meta    Metadata
	content []byte
	stamps  []SignaturePlacement
}

// NewMemStore creates an empty in-memory drive.
func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string]*memObject)}
}

// Upload stores a new object under a generated id.
func (s *MemStore) Upload(_ context.Context, name, description, mimeType string, content io.Reader) (*Metadata, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	obj := &memObject{
		meta: Metadata{
			ID:          id,
			Name:        name,
			Description: description,
			MimeType:    mimeType,
			Size:        int64(len(data)),
			ModifiedAt:  time.Now().UTC(),
		},
		content: data,
	}
	s.objects[id] = obj

	meta := obj.meta
	return &meta, nil
}

// Metadata returns a copy of the stored object's metadata.
func (s *MemStore) Metadata(_ context.Context, fileID string) (*Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[fileID]
	if !ok {
		return nil, ErrNotFound
	}
	meta := obj.meta
	return &meta, nil
}

// UpdateContent replaces the object's content in place.
func (s *MemStore) UpdateContent(_ context.Context, fileID, name, mimeType string, content io.Reader) (*Metadata, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[fileID]
	if !ok {
		return nil, ErrNotFound
	}
	if name != "" {
		obj.meta.Name = name
	}
	if mimeType != "" {
		obj.meta.MimeType = mimeType
	}
	obj.content = data
	obj.meta.Size = int64(len(data))
	obj.meta.ModifiedAt = time.Now().UTC()

	meta := obj.meta
	return &meta, nil
}

// StampSignature records the stamp; content rendering is the real drive's job.
func (s *MemStore) StampSignature(_ context.Context, fileID string, _ []byte, placement SignaturePlacement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[fileID]
	if !ok {
		return ErrNotFound
	}
	obj.stamps = append(obj.stamps, placement)
	obj.meta.ModifiedAt = time.Now().UTC()
	return nil
}

// Stamps returns the placements recorded for an object, for test assertions.
func (s *MemStore) Stamps(fileID string) []SignaturePlacement {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[fileID]
	if !ok {
		return nil
	}
	out := make([]SignaturePlacement, len(obj.stamps))
	copy(out, obj.stamps)
	return out
}

// Put inserts an object with a fixed id, for tests that need known ids.
func (s *MemStore) Put(fileID, name, mimeType string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[fileID] = &memObject{
		meta: Metadata{
			ID:         fileID,
			Name:       name,
			MimeType:   mimeType,
			Size:       int64(len(content)),
			ModifiedAt: time.Now().UTC(),
		},
		content: content,
	}
}
