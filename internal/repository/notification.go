package repository

import (
	"context"

	"gorm.io/gorm"

	"sahkan/internal/models"
)

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	ListForRecipient(ctx context.Context, recipientID string, offset, limit int) ([]models.Notification, int64, error)
	ListByProcess(ctx context.Context, processID string) ([]models.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&notifications).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByProcess returns the full notification trail of one process, newest
// first, for the activity log.
func (r *notificationRepository) ListByProcess(ctx context.Context, processID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("process_id = ?", processID).
		Order("created_at desc").
		Find(&notifications).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, recipientID string, offset, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if err := base.Order("created_at desc").Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return notifications, total, nil
}
