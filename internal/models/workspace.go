package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workspace is a named container users belong to. Membership drives the
// candidate approver and candidate file lists; the workspace itself carries
// no approval lifecycle state.
type Workspace struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(160);not null" json:"name"`
	OwnerID   string    `gorm:"type:char(36);not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

// TableName specifies the table name for GORM
func (Workspace) TableName() string {
	return "workspaces"
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (w *Workspace) BeforeCreate(_ *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// WorkspaceMember is one membership row per (workspace, user) pair.
type WorkspaceMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WorkspaceID string    `gorm:"type:char(36);not null;uniqueIndex:idx_workspace_member" json:"workspace_id"`
	UserID      string    `gorm:"type:char(36);not null;uniqueIndex:idx_workspace_member" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (WorkspaceMember) TableName() string {
	return "workspace_members"
}
