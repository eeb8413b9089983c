package drive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStoreUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "laporan.pdf", r.FormValue("name"))
		assert.Equal(t, "application/pdf", r.FormValue("mime_type"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Metadata{
			ID:         "drv-123",
			Name:       "laporan.pdf",
			MimeType:   "application/pdf",
			Size:       11,
			ModifiedAt: time.Now().UTC(),
		})
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "secret-token", 5*time.Second)
	meta, err := store.Upload(context.Background(), "laporan.pdf", "laporan bulanan", "application/pdf", strings.NewReader("pdf content"))
	require.NoError(t, err)
	assert.Equal(t, "drv-123", meta.ID)
	assert.Equal(t, "laporan.pdf", meta.Name)
}

func TestHTTPStoreMetadataNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "", 5*time.Second)
	_, err := store.Metadata(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPStoreUpdateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/files/drv-123/content", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Metadata{ID: "drv-123", Name: "laporan-v2.pdf", Size: 14})
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "", 5*time.Second)
	meta, err := store.UpdateContent(context.Background(), "drv-123", "laporan-v2.pdf", "application/pdf", strings.NewReader("revised content"))
	require.NoError(t, err)
	assert.Equal(t, "laporan-v2.pdf", meta.Name)
}

func TestHTTPStoreStampSignature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/drv-123/signature", r.URL.Path)

		var payload struct {
			Image     string             `json:"image"`
			Placement SignaturePlacement `json:"placement"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.NotEmpty(t, payload.Image)
		assert.Equal(t, 2, payload.Placement.Page)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "", 5*time.Second)
	err := store.StampSignature(context.Background(), "drv-123", []byte{0x89, 0x50, 0x4e, 0x47}, SignaturePlacement{Page: 2, X: 40, Y: 700, Width: 120})
	assert.NoError(t, err)
}

func TestHTTPStoreServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "", 5*time.Second)
	_, err := store.Metadata(context.Background(), "drv-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
