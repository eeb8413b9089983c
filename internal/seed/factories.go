// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sahkan/internal/models"
)

// DefaultPassword is the password every seeded account logs in with.
const DefaultPassword = "rahasia123"

var documentNames = []string{
	"Laporan Bulanan", "Notulen Rapat", "Rencana Anggaran", "Surat Keputusan",
	"Laporan Kegiatan", "Daftar Hadir", "Program Kerja", "Evaluasi Semester",
	"Proposal Kegiatan", "Berita Acara",
}

var workspaceNames = []string{
	"Tata Usaha", "Kurikulum", "Kesiswaan", "Sarana Prasarana", "Humas",
}

var subjects = []string{
	"Matematika", "Bahasa Indonesia", "Bahasa Inggris", "Fisika", "Biologi",
	"Kimia", "Sejarah", "Geografi", "Ekonomi", "Informatika",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, rng: rand.New(rand.NewSource(seed))}
}

// CreateUser persists a user with the default password.
func (f *Factory) CreateUser(isAdmin bool) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: string(hash),
		IsAdmin:  isAdmin,
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateWorkspace persists a workspace and enrolls the given members.
func (f *Factory) CreateWorkspace(owner *models.User, members []*models.User) (*models.Workspace, error) {
	workspace := &models.Workspace{
		Name:    workspaceNames[f.rng.Intn(len(workspaceNames))],
		OwnerID: owner.ID,
	}
	if err := f.db.Create(workspace).Error; err != nil {
		return nil, err
	}
	rows := []models.WorkspaceMember{{WorkspaceID: workspace.ID, UserID: owner.ID}}
	for _, member := range members {
		if member.ID == owner.ID {
			continue
		}
		rows = append(rows, models.WorkspaceMember{WorkspaceID: workspace.ID, UserID: member.ID})
	}
	if err := f.db.Create(&rows).Error; err != nil {
		return nil, err
	}
	return workspace, nil
}

// CreateFile registers a document with a synthetic drive id. The content
// itself lives in the drive and is not seeded here.
func (f *Factory) CreateFile(workspace *models.Workspace, owner *models.User) (*models.File, error) {
	file := &models.File{
		ID:          "drv-" + uuid.NewString(),
		WorkspaceID: workspace.ID,
		OwnerID:     owner.ID,
		Description: documentNames[f.rng.Intn(len(documentNames))],
		CreatedAt:   f.pastTime(60),
	}
	if err := f.db.Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

// CreateProcess creates one approval row per approver, all sharing a fresh
// process id, then walks a random subset of them through a decision.
func (f *Factory) CreateProcess(file *models.File, assigner *models.User, approvers []*models.User) (string, error) {
	processID := uuid.NewString()
	createdAt := f.pastTime(30)

	decided := 0
	for _, approver := range approvers {
		row := models.Approval{
			ProcessID:    processID,
			ApproverID:   approver.ID,
			AssignedByID: assigner.ID,
			FileID:       file.ID,
			WorkspaceID:  file.WorkspaceID,
			OwnerID:      file.OwnerID,
			Status:       models.ApprovalStatusPending,
			CreatedAt:    createdAt,
		}

		switch f.rng.Intn(3) {
		case 0:
			actioned := createdAt.Add(time.Duration(1+f.rng.Intn(72)) * time.Hour)
			row.Status = models.ApprovalStatusApproved
			row.ActionedAt = &actioned
			decided++
		case 1:
			actioned := createdAt.Add(time.Duration(1+f.rng.Intn(72)) * time.Hour)
			remarks := fmt.Sprintf("Mohon perbaiki bagian %s", gofakeit.Word())
			row.Status = models.ApprovalStatusRevision
			row.Remarks = &remarks
			row.ActionedAt = &actioned
			decided++
		}

		if err := f.db.Create(&row).Error; err != nil {
			return "", err
		}

		note := models.Notification{
			RecipientID: approver.ID,
			Message:     fmt.Sprintf("%s menugaskan Anda meninjau dokumen %q", assigner.Name, file.Description),
			Type:        models.NotificationTypeAssignment,
			ProcessID:   processID,
			CreatedAt:   createdAt,
		}
		if err := f.db.Create(&note).Error; err != nil {
			return "", err
		}
	}

	// when every row was approved, stamp the document
	if decided == len(approvers) {
		var pending int64
		f.db.Model(&models.Approval{}).
			Where("process_id = ? AND status <> ?", processID, models.ApprovalStatusApproved).
			Count(&pending)
		if pending == 0 {
			now := time.Now()
			f.db.Model(&models.File{}).Where("id = ?", file.ID).Update("pengesahan_pada", &now)
		}
	}

	return processID, nil
}

// CreateGrade persists one gradebook entry by the given teacher.
func (f *Factory) CreateGrade(workspace *models.Workspace, teacher *models.User) (*models.GradeEntry, error) {
	entry := &models.GradeEntry{
		WorkspaceID: workspace.ID,
		TeacherID:   teacher.ID,
		StudentName: gofakeit.Name(),
		Subject:     subjects[f.rng.Intn(len(subjects))],
		Score:       float64(50 + f.rng.Intn(51)),
		Term:        "Ganjil 2026",
	}
	if err := f.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (f *Factory) pastTime(maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(f.rng.Intn(maxDays*24)) * time.Hour).
		Add(-time.Duration(f.rng.Intn(60)) * time.Minute)
}
