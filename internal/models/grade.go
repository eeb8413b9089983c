package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GradeEntry is one score a teacher recorded for a student. The gradebook is
// an independent module bundled with the approval app; it shares the user and
// workspace entities but none of the approval lifecycle.
type GradeEntry struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	WorkspaceID string    `gorm:"type:char(36);not null;index" json:"workspace_id"`
	TeacherID   string    `gorm:"type:char(36);not null;index" json:"teacher_id"`
	StudentName string    `gorm:"type:varchar(160);not null" json:"student_name"`
	Subject     string    `gorm:"type:varchar(120);not null" json:"subject"`
	Score       float64   `gorm:"not null" json:"score"`
	Term        string    `gorm:"type:varchar(40)" json:"term"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Teacher *User `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

// TableName specifies the table name for GORM
func (GradeEntry) TableName() string {
	return "grade_entries"
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (g *GradeEntry) BeforeCreate(_ *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
