package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadFile(t *testing.T) {
	f := newServerFixture(t)

	resp := f.multipartRequest(t, "/api/workspaces/"+f.workspace.ID+"/files", f.reviewer.ID,
		map[string]string{"description": "notulen rapat"},
		"file", "notulen.pdf", []byte("pdf bytes"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	file, ok := body["file"].(map[string]any)
	require.True(t, ok)
	fileID, _ := file["id"].(string)
	require.NotEmpty(t, fileID)
	assert.Equal(t, f.reviewer.ID, file["owner_id"])
	assert.Equal(t, "notulen rapat", file["description"])

	meta, err := f.store.Metadata(context.Background(), fileID)
	require.NoError(t, err)
	assert.Equal(t, "notulen.pdf", meta.Name)
}

func TestUploadFileRequiresFile(t *testing.T) {
	f := newServerFixture(t)

	resp := f.multipartRequest(t, "/api/workspaces/"+f.workspace.ID+"/files", f.reviewer.ID,
		map[string]string{"description": "kosong"}, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadFileRequiresMembership(t *testing.T) {
	f := newServerFixture(t)

	resp := f.multipartRequest(t, "/api/workspaces/"+f.workspace.ID+"/files", f.outsider.ID,
		nil, "file", "notulen.pdf", []byte("pdf bytes"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetWorkspaceFiles(t *testing.T) {
	f := newServerFixture(t)

	resp := f.request(t, http.MethodGet, "/api/workspaces/"+f.workspace.ID+"/files", f.reviewer.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total"])
	assert.Len(t, body["files"], 1)
}
