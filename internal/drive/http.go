package drive

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"sahkan/internal/observability"
)

// HTTPStore talks to the drive service over its REST API.
type HTTPStore struct {
	baseURL string
	token   string
	hc      *http.Client
}

// NewHTTPStore creates a drive client for the given base URL and bearer token.
func NewHTTPStore(baseURL, token string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPStore{
		baseURL: baseURL,
		token:   token,
		hc:      &http.Client{Timeout: timeout},
	}
}

func (s *HTTPStore) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return req, nil
}

// do executes the request and decodes a JSON body into out when provided.
func (s *HTTPStore) do(op string, req *http.Request, out any) error {
	start := time.Now()
	resp, err := s.hc.Do(req)
	observability.DriveCallLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.DriveCallErrors.WithLabelValues(op).Inc()
		return fmt.Errorf("drive %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		observability.DriveCallErrors.WithLabelValues(op).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("drive %s: status %d: %s", op, resp.StatusCode, bytes.TrimSpace(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		observability.DriveCallErrors.WithLabelValues(op).Inc()
		return fmt.Errorf("drive %s: decode response: %w", op, err)
	}
	return nil
}

func contentForm(name, description, mimeType string, content io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("name", name)
	if description != "" {
		_ = w.WriteField("description", description)
	}
	_ = w.WriteField("mime_type", mimeType)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Upload stores a new object and returns its drive-assigned metadata.
func (s *HTTPStore) Upload(ctx context.Context, name, description, mimeType string, content io.Reader) (*Metadata, error) {
	buf, contentType, err := contentForm(name, description, mimeType, content)
	if err != nil {
		return nil, fmt.Errorf("drive upload: %w", err)
	}
	req, err := s.newRequest(ctx, http.MethodPost, "/files", buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var meta Metadata
	if err := s.do("upload", req, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Metadata fetches current metadata for an object.
func (s *HTTPStore) Metadata(ctx context.Context, fileID string) (*Metadata, error) {
	req, err := s.newRequest(ctx, http.MethodGet, "/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := s.do("metadata", req, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// UpdateContent replaces an object's content, keeping its id.
func (s *HTTPStore) UpdateContent(ctx context.Context, fileID, name, mimeType string, content io.Reader) (*Metadata, error) {
	buf, contentType, err := contentForm(name, "", mimeType, content)
	if err != nil {
		return nil, fmt.Errorf("drive update: %w", err)
	}
	req, err := s.newRequest(ctx, http.MethodPut, "/files/"+url.PathEscape(fileID)+"/content", buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var meta Metadata
	if err := s.do("update_content", req, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// StampSignature renders the PNG signature onto the stored document.
func (s *HTTPStore) StampSignature(ctx context.Context, fileID string, signaturePNG []byte, placement SignaturePlacement) error {
	payload := struct {
		Image     string             `json:"image"`
		Placement SignaturePlacement `json:"placement"`
	}{
		Image:     base64.StdEncoding.EncodeToString(signaturePNG),
		Placement: placement,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("drive stamp: %w", err)
	}

	req, err := s.newRequest(ctx, http.MethodPost, "/files/"+url.PathEscape(fileID)+"/signature", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return s.do("stamp_signature", req, nil)
}
