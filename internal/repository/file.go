package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"sahkan/internal/models"
)

// FileRepository defines the interface for file data operations
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id string) (*models.File, error)
	GetByRef(ctx context.Context, workspaceID, ownerID, fileID string) (*models.File, error)
	ListByWorkspace(ctx context.Context, workspaceID string, offset, limit int) ([]models.File, int64, error)
	Update(ctx context.Context, file *models.File) error
	SetPengesahan(ctx context.Context, fileID string, at *time.Time) error
}

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *models.File) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("file is already registered")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	var file models.File
	if err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("file", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &file, nil
}

// GetByRef addresses a file the way approval rows do: by the composite of
// workspace, owner and drive id.
func (r *fileRepository) GetByRef(ctx context.Context, workspaceID, ownerID, fileID string) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ? AND owner_id = ?", fileID, workspaceID, ownerID).
		First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("file", fileID)
		}
		return nil, models.NewInternalError(err)
	}
	return &file, nil
}

func (r *fileRepository) ListByWorkspace(ctx context.Context, workspaceID string, offset, limit int) ([]models.File, int64, error) {
	var files []models.File
	var total int64

	base := r.db.WithContext(ctx).Model(&models.File{}).Where("workspace_id = ?", workspaceID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if err := base.Order("created_at desc").Offset(offset).Limit(limit).Find(&files).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return files, total, nil
}

func (r *fileRepository) Update(ctx context.Context, file *models.File) error {
	if err := r.db.WithContext(ctx).Save(file).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// SetPengesahan writes or clears the finalization timestamp directly, without
// touching other columns.
func (r *fileRepository) SetPengesahan(ctx context.Context, fileID string, at *time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.File{}).
		Where("id = ?", fileID).
		Update("pengesahan_pada", at)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("file", fileID)
	}
	return nil
}
