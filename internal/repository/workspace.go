package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sahkan/internal/models"
)

// WorkspaceRepository defines the interface for workspace data operations
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *models.Workspace) error
	GetByID(ctx context.Context, id string) (*models.Workspace, error)
	ListForUser(ctx context.Context, userID string) ([]models.Workspace, error)
	AddMember(ctx context.Context, workspaceID, userID string) error
	RemoveMember(ctx context.Context, workspaceID, userID string) error
	IsMember(ctx context.Context, workspaceID, userID string) (bool, error)
	ListMembers(ctx context.Context, workspaceID string) ([]models.User, error)
}

type workspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

// Create stores the workspace and enrolls the owner as its first member.
func (r *workspaceRepository) Create(ctx context.Context, workspace *models.Workspace) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workspace).Error; err != nil {
			return err
		}
		member := models.WorkspaceMember{WorkspaceID: workspace.ID, UserID: workspace.OwnerID}
		return tx.Create(&member).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *workspaceRepository) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := r.db.WithContext(ctx).Preload("Owner").First(&workspace, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("workspace", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &workspace, nil
}

func (r *workspaceRepository) ListForUser(ctx context.Context, userID string) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := r.db.WithContext(ctx).
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Order("workspaces.name asc").
		Find(&workspaces).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return workspaces, nil
}

func (r *workspaceRepository) AddMember(ctx context.Context, workspaceID, userID string) error {
	member := models.WorkspaceMember{WorkspaceID: workspaceID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&member).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("user is already a member of this workspace")
		}
		if isForeignKeyError(err) {
			return models.NewNotFoundError("user", userID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *workspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&models.WorkspaceMember{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("workspace member", userID)
	}
	return nil
}

func (r *workspaceRepository) IsMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *workspaceRepository) ListMembers(ctx context.Context, workspaceID string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN workspace_members ON workspace_members.user_id = users.id").
		Where("workspace_members.workspace_id = ?", workspaceID).
		Order("users.name asc").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
