package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahkan/internal/models"
)

func seedFileFixture(t *testing.T) (FileRepository, models.Workspace, models.User) {
	t.Helper()
	db := setupTestDB(t)

	owner := models.User{Name: "Budi", Email: "budi@example.com", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)
	workspace := models.Workspace{Name: "Tata Usaha", OwnerID: owner.ID}
	require.NoError(t, db.Create(&workspace).Error)

	return NewFileRepository(db), workspace, owner
}

func TestFileGetByRef(t *testing.T) {
	repo, workspace, owner := seedFileFixture(t)
	ctx := context.Background()

	file := &models.File{ID: "drv-1", WorkspaceID: workspace.ID, OwnerID: owner.ID}
	require.NoError(t, repo.Create(ctx, file))

	got, err := repo.GetByRef(ctx, workspace.ID, owner.ID, "drv-1")
	require.NoError(t, err)
	assert.Equal(t, "drv-1", got.ID)

	// any mismatching component of the composite reference is a 404
	_, err = repo.GetByRef(ctx, workspace.ID, "someone-else", "drv-1")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	_, err = repo.GetByRef(ctx, "other-workspace", owner.ID, "drv-1")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestFileSetPengesahan(t *testing.T) {
	repo, workspace, owner := seedFileFixture(t)
	ctx := context.Background()

	file := &models.File{ID: "drv-1", WorkspaceID: workspace.ID, OwnerID: owner.ID}
	require.NoError(t, repo.Create(ctx, file))

	now := time.Now()
	require.NoError(t, repo.SetPengesahan(ctx, "drv-1", &now))

	got, err := repo.GetByID(ctx, "drv-1")
	require.NoError(t, err)
	require.NotNil(t, got.PengesahanPada)
	assert.WithinDuration(t, now, *got.PengesahanPada, time.Second)

	// clearing the stamp
	require.NoError(t, repo.SetPengesahan(ctx, "drv-1", nil))
	got, err = repo.GetByID(ctx, "drv-1")
	require.NoError(t, err)
	assert.Nil(t, got.PengesahanPada)

	// unknown file is a 404
	err = repo.SetPengesahan(ctx, "drv-missing", &now)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestFileListByWorkspace(t *testing.T) {
	repo, workspace, owner := seedFileFixture(t)
	ctx := context.Background()

	for _, id := range []string{"drv-1", "drv-2", "drv-3"} {
		require.NoError(t, repo.Create(ctx, &models.File{ID: id, WorkspaceID: workspace.ID, OwnerID: owner.ID}))
	}

	files, total, err := repo.ListByWorkspace(ctx, workspace.ID, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, files, 2)
}
