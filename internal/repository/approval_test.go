package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sahkan/internal/models"
)

func seedApprovalFixtures(t *testing.T, db *gorm.DB) (owner, approverA, approverB models.User, file models.File) {
	t.Helper()

	owner = models.User{Name: "Budi Santoso", Email: "budi@example.com", Password: "x"}
	approverA = models.User{Name: "Siti Rahma", Email: "siti@example.com", Password: "x"}
	approverB = models.User{Name: "Agus Wijaya", Email: "agus@example.com", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&approverA).Error)
	require.NoError(t, db.Create(&approverB).Error)

	workspace := models.Workspace{Name: "Tata Usaha", OwnerID: owner.ID}
	require.NoError(t, db.Create(&workspace).Error)

	file = models.File{ID: "drv-laporan-1", WorkspaceID: workspace.ID, OwnerID: owner.ID}
	require.NoError(t, db.Create(&file).Error)
	return owner, approverA, approverB, file
}

func newApprovalRow(processID string, file models.File, approverID, assignerID string) *models.Approval {
	return &models.Approval{
		ProcessID:    processID,
		ApproverID:   approverID,
		AssignedByID: assignerID,
		FileID:       file.ID,
		WorkspaceID:  file.WorkspaceID,
		OwnerID:      file.OwnerID,
		Status:       models.ApprovalStatusPending,
	}
}

func TestApprovalCreateDuplicateApprover(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	owner, approverA, _, file := seedApprovalFixtures(t, db)
	processID := uuid.NewString()

	require.NoError(t, repo.Create(ctx, newApprovalRow(processID, file, approverA.ID, owner.ID)))

	err := repo.Create(ctx, newApprovalRow(processID, file, approverA.ID, owner.ID))
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestApprovalResetRevisions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)
	fileRepo := NewFileRepository(db)
	ctx := context.Background()

	owner, approverA, approverB, file := seedApprovalFixtures(t, db)
	processID := uuid.NewString()

	remarks := "perbaiki bab 2"
	now := time.Now()
	revised := newApprovalRow(processID, file, approverA.ID, owner.ID)
	revised.Status = models.ApprovalStatusRevision
	revised.Remarks = &remarks
	revised.ActionedAt = &now
	require.NoError(t, repo.Create(ctx, revised))

	approved := newApprovalRow(processID, file, approverB.ID, owner.ID)
	approved.Status = models.ApprovalStatusApproved
	approved.ActionedAt = &now
	require.NoError(t, repo.Create(ctx, approved))

	require.NoError(t, fileRepo.SetPengesahan(ctx, file.ID, &now))

	affected, err := repo.ResetRevisions(ctx, file.WorkspaceID, file.OwnerID, file.ID, "mohon tinjau ulang")
	require.NoError(t, err)
	require.Len(t, affected, 1)
	assert.Equal(t, approverA.ID, affected[0].ApproverID)

	rows, err := repo.ListByProcess(ctx, processID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		switch row.ApproverID {
		case approverA.ID:
			assert.Equal(t, models.ApprovalStatusPending, row.Status)
			assert.Nil(t, row.ActionedAt)
			require.NotNil(t, row.Remarks)
			assert.Equal(t, "mohon tinjau ulang", *row.Remarks)
		case approverB.ID:
			assert.Equal(t, models.ApprovalStatusApproved, row.Status, "decided rows outside the revision set are untouched")
		}
	}

	got, err := fileRepo.GetByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PengesahanPada, "finalization stamp cleared with the reset")
}

func TestApprovalResetRevisionsNoMatches(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)
	fileRepo := NewFileRepository(db)
	ctx := context.Background()

	owner, approverA, _, file := seedApprovalFixtures(t, db)
	processID := uuid.NewString()

	approved := newApprovalRow(processID, file, approverA.ID, owner.ID)
	approved.Status = models.ApprovalStatusApproved
	require.NoError(t, repo.Create(ctx, approved))

	now := time.Now()
	require.NoError(t, fileRepo.SetPengesahan(ctx, file.ID, &now))

	affected, err := repo.ResetRevisions(ctx, file.WorkspaceID, file.OwnerID, file.ID, "mohon tinjau ulang")
	require.NoError(t, err)
	assert.Empty(t, affected)

	got, err := fileRepo.GetByID(ctx, file.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.PengesahanPada, "empty match must not clear the stamp")
}

func TestApprovalResetProcess(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)
	fileRepo := NewFileRepository(db)
	ctx := context.Background()

	owner, approverA, approverB, file := seedApprovalFixtures(t, db)
	processID := uuid.NewString()

	now := time.Now()
	approved := newApprovalRow(processID, file, approverA.ID, owner.ID)
	approved.Status = models.ApprovalStatusApproved
	approved.ActionedAt = &now
	require.NoError(t, repo.Create(ctx, approved))
	require.NoError(t, repo.Create(ctx, newApprovalRow(processID, file, approverB.ID, owner.ID)))
	require.NoError(t, fileRepo.SetPengesahan(ctx, file.ID, &now))

	affected, err := repo.ResetProcess(ctx, processID, file.ID, "dokumen diperbarui, mohon tinjau ulang")
	require.NoError(t, err)
	assert.Len(t, affected, 2)

	rows, err := repo.ListByProcess(ctx, processID)
	require.NoError(t, err)
	for _, row := range rows {
		assert.Equal(t, models.ApprovalStatusPending, row.Status)
		assert.Nil(t, row.ActionedAt)
		require.NotNil(t, row.Remarks)
		assert.Equal(t, "dokumen diperbarui, mohon tinjau ulang", *row.Remarks)
	}

	got, err := fileRepo.GetByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PengesahanPada)
}

func TestApprovalCancelProcess(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	owner, approverA, approverB, file := seedApprovalFixtures(t, db)
	processID := uuid.NewString()

	require.NoError(t, repo.Create(ctx, newApprovalRow(processID, file, approverA.ID, owner.ID)))

	now := time.Now()
	approved := newApprovalRow(processID, file, approverB.ID, owner.ID)
	approved.Status = models.ApprovalStatusApproved
	approved.ActionedAt = &now
	require.NoError(t, repo.Create(ctx, approved))

	affected, err := repo.CancelProcess(ctx, processID, models.ApprovalStatusSuperseded)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected, "decided rows are cancelled too")

	rows, err := repo.ListByProcess(ctx, processID)
	require.NoError(t, err)
	for _, row := range rows {
		assert.Equal(t, models.ApprovalStatusSuperseded, row.Status)
		assert.NotNil(t, row.ActionedAt)
	}
}

func TestApprovalListProcessIDsByWorkspace(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	owner, approverA, approverB, file := seedApprovalFixtures(t, db)

	older := uuid.NewString()
	newer := uuid.NewString()

	first := newApprovalRow(older, file, approverA.ID, owner.ID)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, db.Model(first).Update("created_at", time.Now().Add(-time.Hour)).Error)

	require.NoError(t, repo.Create(ctx, newApprovalRow(newer, file, approverA.ID, owner.ID)))
	require.NoError(t, repo.Create(ctx, newApprovalRow(newer, file, approverB.ID, owner.ID)))

	ids, total, err := repo.ListProcessIDsByWorkspace(ctx, file.WorkspaceID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, ids, 2)
	assert.Equal(t, newer, ids[0], "newest process first")
	assert.Equal(t, older, ids[1])

	// process-granular pagination: one process per page
	ids, total, err = repo.ListProcessIDsByWorkspace(ctx, file.WorkspaceID, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, ids, 1)
	assert.Equal(t, older, ids[0])
}

func TestApprovalLatestProcessIDForFileSkipsSuperseded(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	owner, approverA, _, file := seedApprovalFixtures(t, db)

	replaced := uuid.NewString()
	require.NoError(t, repo.Create(ctx, newApprovalRow(replaced, file, approverA.ID, owner.ID)))
	_, err := repo.CancelProcess(ctx, replaced, models.ApprovalStatusSuperseded)
	require.NoError(t, err)

	active := uuid.NewString()
	require.NoError(t, repo.Create(ctx, newApprovalRow(active, file, approverA.ID, owner.ID)))

	got, err := repo.LatestProcessIDForFile(ctx, file.WorkspaceID, file.OwnerID, file.ID)
	require.NoError(t, err)
	assert.Equal(t, active, got)
}
