package models

import "time"

// NotificationType tags why a notification row was written.
type NotificationType string

const (
	// NotificationTypeAssignment is emitted when an approver is assigned.
	NotificationTypeAssignment NotificationType = "assignment"
	// NotificationTypeRevision is emitted when a re-review is requested.
	NotificationTypeRevision NotificationType = "revision"
	// NotificationTypeDecision is emitted to the assigner when an approver acts.
	NotificationTypeDecision NotificationType = "decision"
)

// Notification is an append-only audit/activity row written by the approval
// engine as a side effect of lifecycle transitions. Rows are read back to
// render the activity feed; they are never mutated.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RecipientID string           `gorm:"type:char(36);not null;index" json:"recipient_id"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	Type        NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Link        string           `gorm:"type:varchar(512)" json:"link,omitempty"`
	ProcessID   string           `gorm:"type:char(36);index" json:"process_id"`
	CreatedAt   time.Time        `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}
