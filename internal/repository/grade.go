package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sahkan/internal/models"
)

// GradeRepository defines the interface for gradebook data operations
type GradeRepository interface {
	Create(ctx context.Context, entry *models.GradeEntry) error
	GetByID(ctx context.Context, id string) (*models.GradeEntry, error)
	ListByWorkspace(ctx context.Context, workspaceID string, offset, limit int) ([]models.GradeEntry, int64, error)
	ListByTeacher(ctx context.Context, workspaceID, teacherID string, offset, limit int) ([]models.GradeEntry, int64, error)
	Update(ctx context.Context, entry *models.GradeEntry) error
	Delete(ctx context.Context, id string) error
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository creates a new grade repository
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) Create(ctx context.Context, entry *models.GradeEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *gradeRepository) GetByID(ctx context.Context, id string) (*models.GradeEntry, error) {
	var entry models.GradeEntry
	if err := r.db.WithContext(ctx).Preload("Teacher").First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("grade entry", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &entry, nil
}

func (r *gradeRepository) ListByWorkspace(ctx context.Context, workspaceID string, offset, limit int) ([]models.GradeEntry, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.GradeEntry{}).Where("workspace_id = ?", workspaceID), offset, limit)
}

func (r *gradeRepository) ListByTeacher(ctx context.Context, workspaceID, teacherID string, offset, limit int) ([]models.GradeEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.GradeEntry{}).
		Where("workspace_id = ? AND teacher_id = ?", workspaceID, teacherID)
	return r.list(ctx, query, offset, limit)
}

func (r *gradeRepository) list(_ context.Context, base *gorm.DB, offset, limit int) ([]models.GradeEntry, int64, error) {
	var entries []models.GradeEntry
	var total int64

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	err := base.Order("student_name asc, subject asc").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return entries, total, nil
}

func (r *gradeRepository) Update(ctx context.Context, entry *models.GradeEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *gradeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.GradeEntry{}, "id = ?", id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("grade entry", id)
	}
	return nil
}
