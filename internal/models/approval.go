package models

import "time"

// ApprovalStatus is the persisted per-approver status of an approval row.
type ApprovalStatus string

const (
	// ApprovalStatusPending is the initial state of every approval row.
	ApprovalStatusPending ApprovalStatus = "Belum Ditinjau"
	// ApprovalStatusRevision means the approver requested changes.
	ApprovalStatusRevision ApprovalStatus = "Perlu Revisi"
	// ApprovalStatusApproved is terminal for the row; only a revision-cycle
	// reset may move the row out of it.
	ApprovalStatusApproved ApprovalStatus = "Sah"
	// ApprovalStatusCancelled marks a row cancelled by the assigner.
	ApprovalStatusCancelled ApprovalStatus = "Dibatalkan"
	// ApprovalStatusSuperseded marks a row cancelled because a replacement
	// process took over the document.
	ApprovalStatusSuperseded ApprovalStatus = "Dibatalkan (Digantikan)"
)

// Terminal reports whether the status permits no further approver decision.
func (s ApprovalStatus) Terminal() bool {
	switch s {
	case ApprovalStatusApproved, ApprovalStatusCancelled, ApprovalStatusSuperseded:
		return true
	}
	return false
}

// Valid reports whether s is one of the five persisted statuses.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusRevision, ApprovalStatusApproved,
		ApprovalStatusCancelled, ApprovalStatusSuperseded:
		return true
	}
	return false
}

// Approval is one approver's slot in a review process. A batch of approvers
// assigned together shares one ProcessID, so a single review request is N
// rows with the same process id, one per approver. The file reference is
// denormalized (file id + workspace id + owner id) to match the composite
// way files are addressed.
//
// Rows are never deleted; cancelled rows remain as audit trail.
type Approval struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ProcessID    string         `gorm:"type:char(36);not null;uniqueIndex:idx_process_approver;index" json:"process_id"`
	ApproverID   string         `gorm:"type:char(36);not null;uniqueIndex:idx_process_approver" json:"approver_id"`
	AssignedByID string         `gorm:"type:char(36);not null" json:"assigned_by_id"`
	FileID       string         `gorm:"type:varchar(128);not null;index" json:"file_id"`
	WorkspaceID  string         `gorm:"type:char(36);not null;index" json:"workspace_id"`
	OwnerID      string         `gorm:"type:char(36);not null" json:"owner_id"`
	Status       ApprovalStatus `gorm:"type:varchar(40);not null;default:'Belum Ditinjau';index" json:"status"`
	Remarks      *string        `gorm:"type:text" json:"remarks"`
	ActionedAt   *time.Time     `json:"actioned_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Approver   *User `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	AssignedBy *User `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
}

// TableName specifies the table name for GORM
func (Approval) TableName() string {
	return "approvals"
}
