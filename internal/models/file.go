package models

import "time"

// File is a document tracked by the approval engine. Its primary key is the
// identifier of the stored object in the external drive, so drive metadata
// can be fetched without a mapping table.
//
// PengesahanPada is non-null exactly when every approval row of the file's
// active process is "Sah". It is mutated only by the engine: cleared when a
// revision cycle starts, set when the last outstanding approver approves.
type File struct {
	ID             string     `gorm:"type:varchar(128);primaryKey" json:"id"`
	WorkspaceID    string     `gorm:"type:char(36);not null;index" json:"workspace_id"`
	OwnerID        string     `gorm:"type:char(36);not null;index" json:"owner_id"`
	Description    string     `gorm:"type:text" json:"description"`
	PengesahanPada *time.Time `json:"pengesahan_pada"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (File) TableName() string {
	return "files"
}
