package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"sahkan/internal/models"
)

// ApprovalRepository defines the interface for approval data operations
type ApprovalRepository interface {
	Create(ctx context.Context, approval *models.Approval) error
	GetByProcessAndApprover(ctx context.Context, processID, approverID string) (*models.Approval, error)
	ListByProcess(ctx context.Context, processID string) ([]models.Approval, error)
	ListForApprover(ctx context.Context, approverID string, status models.ApprovalStatus, offset, limit int) ([]models.Approval, int64, error)
	ListProcessIDsByWorkspace(ctx context.Context, workspaceID string, offset, limit int) ([]string, int64, error)
	ListByProcessIDs(ctx context.Context, processIDs []string) ([]models.Approval, error)
	LatestProcessIDForFile(ctx context.Context, workspaceID, ownerID, fileID string) (string, error)
	Update(ctx context.Context, approval *models.Approval) error
	ResetRevisions(ctx context.Context, workspaceID, ownerID, fileID, remarks string) ([]models.Approval, error)
	ResetProcess(ctx context.Context, processID, fileID, remarks string) ([]models.Approval, error)
	CancelProcess(ctx context.Context, processID string, status models.ApprovalStatus) (int64, error)
}

type approvalRepository struct {
	db *gorm.DB
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, approval *models.Approval) error {
	if err := r.db.WithContext(ctx).Create(approval).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("approver is already assigned to this process")
		}
		if isForeignKeyError(err) {
			return models.NewNotFoundError("approver", approval.ApproverID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *approvalRepository) GetByProcessAndApprover(ctx context.Context, processID, approverID string) (*models.Approval, error) {
	var approval models.Approval
	err := r.db.WithContext(ctx).
		Preload("Approver").Preload("AssignedBy").
		Where("process_id = ? AND approver_id = ?", processID, approverID).
		First(&approval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("approval", processID)
		}
		return nil, models.NewInternalError(err)
	}
	return &approval, nil
}

func (r *approvalRepository) ListByProcess(ctx context.Context, processID string) ([]models.Approval, error) {
	var approvals []models.Approval
	err := r.db.WithContext(ctx).
		Preload("Approver").Preload("AssignedBy").
		Where("process_id = ?", processID).
		Order("id asc").
		Find(&approvals).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return approvals, nil
}

func (r *approvalRepository) ListForApprover(ctx context.Context, approverID string, status models.ApprovalStatus, offset, limit int) ([]models.Approval, int64, error) {
	var approvals []models.Approval
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Approval{}).Where("approver_id = ?", approverID)
	if status != "" {
		base = base.Where("status = ?", status)
	}
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	err := base.Preload("AssignedBy").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&approvals).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return approvals, total, nil
}

// ListProcessIDsByWorkspace pages over distinct processes, newest first.
// Rows are loaded in a second step to keep pagination process-granular.
func (r *approvalRepository) ListProcessIDsByWorkspace(ctx context.Context, workspaceID string, offset, limit int) ([]string, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Approval{}).
		Where("workspace_id = ?", workspaceID).
		Distinct("process_id").
		Count(&total).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var ids []string
	err = r.db.WithContext(ctx).Model(&models.Approval{}).
		Select("process_id").
		Where("workspace_id = ?", workspaceID).
		Group("process_id").
		Order("MAX(created_at) DESC").
		Offset(offset).Limit(limit).
		Pluck("process_id", &ids).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return ids, total, nil
}

func (r *approvalRepository) ListByProcessIDs(ctx context.Context, processIDs []string) ([]models.Approval, error) {
	if len(processIDs) == 0 {
		return nil, nil
	}
	var approvals []models.Approval
	err := r.db.WithContext(ctx).
		Preload("Approver").Preload("AssignedBy").
		Where("process_id IN ?", processIDs).
		Order("id asc").
		Find(&approvals).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return approvals, nil
}

// LatestProcessIDForFile returns the most recent process for a file that has
// not been cancelled or superseded.
func (r *approvalRepository) LatestProcessIDForFile(ctx context.Context, workspaceID, ownerID, fileID string) (string, error) {
	var approval models.Approval
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND owner_id = ? AND file_id = ?", workspaceID, ownerID, fileID).
		Where("status NOT IN ?", []models.ApprovalStatus{models.ApprovalStatusCancelled, models.ApprovalStatusSuperseded}).
		Order("created_at desc").
		First(&approval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.NewNotFoundError("approval process for file", fileID)
		}
		return "", models.NewInternalError(err)
	}
	return approval.ProcessID, nil
}

func (r *approvalRepository) Update(ctx context.Context, approval *models.Approval) error {
	if err := r.db.WithContext(ctx).Save(approval).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ResetRevisions moves every "Perlu Revisi" row of the file back to
// "Belum Ditinjau", replaces remarks with the given text, nulls actioned_at
// and clears the file's finalization stamp, all in one transaction. Matching
// zero rows is not an error; the stamp is only touched when rows matched.
// The affected rows are returned as they were before the reset.
func (r *approvalRepository) ResetRevisions(ctx context.Context, workspaceID, ownerID, fileID, remarks string) ([]models.Approval, error) {
	var affected []models.Approval
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("workspace_id = ? AND owner_id = ? AND file_id = ? AND status = ?",
			workspaceID, ownerID, fileID, models.ApprovalStatusRevision).
			Find(&affected).Error
		if err != nil {
			return err
		}
		if len(affected) == 0 {
			return nil
		}

		ids := make([]uint, len(affected))
		for i, row := range affected {
			ids[i] = row.ID
		}
		err = tx.Model(&models.Approval{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"status":      models.ApprovalStatusPending,
				"remarks":     remarks,
				"actioned_at": nil,
			}).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.File{}).
			Where("id = ?", fileID).
			Update("pengesahan_pada", nil).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return affected, nil
}

// ResetProcess moves every row of the process back to "Belum Ditinjau" with
// the given remarks, nulls actioned_at and clears the file's finalization
// stamp, atomically. Used by resubmission, which re-opens the whole process.
func (r *approvalRepository) ResetProcess(ctx context.Context, processID, fileID, remarks string) ([]models.Approval, error) {
	var affected []models.Approval
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("process_id = ?", processID).Find(&affected).Error; err != nil {
			return err
		}
		if len(affected) == 0 {
			return nil
		}

		err := tx.Model(&models.Approval{}).
			Where("process_id = ?", processID).
			Updates(map[string]any{
				"status":      models.ApprovalStatusPending,
				"remarks":     remarks,
				"actioned_at": nil,
			}).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.File{}).
			Where("id = ?", fileID).
			Update("pengesahan_pada", nil).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return affected, nil
}

// CancelProcess marks every row of the process with the given terminal
// status and stamps actioned_at. The rows stay behind as audit trail.
func (r *approvalRepository) CancelProcess(ctx context.Context, processID string, status models.ApprovalStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Approval{}).
		Where("process_id = ?", processID).
		Updates(map[string]any{
			"status":      status,
			"actioned_at": time.Now(),
		})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
