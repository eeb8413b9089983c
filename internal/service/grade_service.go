package service

import (
	"context"
	"strings"

	"sahkan/internal/models"
	"sahkan/internal/repository"
)

// GradeService manages the gradebook. Writes are restricted to the entry's
// teacher; workspace membership is enforced at the handler.
type GradeService struct {
	grades     repository.GradeRepository
	workspaces repository.WorkspaceRepository
}

// NewGradeService creates the grade service.
func NewGradeService(grades repository.GradeRepository, workspaces repository.WorkspaceRepository) *GradeService {
	return &GradeService{grades: grades, workspaces: workspaces}
}

// GradeInput carries the mutable fields of a grade entry.
type GradeInput struct {
	WorkspaceID string  `json:"workspaceId"`
	StudentName string  `json:"studentName"`
	Subject     string  `json:"subject"`
	Score       float64 `json:"score"`
	Term        string  `json:"term"`
}

func (in *GradeInput) validate() error {
	if strings.TrimSpace(in.WorkspaceID) == "" {
		return models.NewValidationError("workspaceId is required")
	}
	if strings.TrimSpace(in.StudentName) == "" {
		return models.NewValidationError("studentName is required")
	}
	if strings.TrimSpace(in.Subject) == "" {
		return models.NewValidationError("subject is required")
	}
	if in.Score < 0 || in.Score > 100 {
		return models.NewValidationError("score must be between 0 and 100")
	}
	return nil
}

func (s *GradeService) Create(ctx context.Context, teacherID string, in GradeInput) (*models.GradeEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	member, err := s.workspaces.IsMember(ctx, in.WorkspaceID, teacherID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, models.NewUnauthorizedError("not a member of this workspace")
	}

	entry := &models.GradeEntry{
		WorkspaceID: in.WorkspaceID,
		TeacherID:   teacherID,
		StudentName: strings.TrimSpace(in.StudentName),
		Subject:     strings.TrimSpace(in.Subject),
		Score:       in.Score,
		Term:        strings.TrimSpace(in.Term),
	}
	if err := s.grades.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *GradeService) Get(ctx context.Context, id string) (*models.GradeEntry, error) {
	return s.grades.GetByID(ctx, id)
}

func (s *GradeService) List(ctx context.Context, workspaceID, teacherID string, page, limit int) ([]models.GradeEntry, int64, error) {
	if workspaceID == "" {
		return nil, 0, models.NewValidationError("workspaceId is required")
	}
	offset := (page - 1) * limit
	if teacherID != "" {
		return s.grades.ListByTeacher(ctx, workspaceID, teacherID, offset, limit)
	}
	return s.grades.ListByWorkspace(ctx, workspaceID, offset, limit)
}

func (s *GradeService) Update(ctx context.Context, teacherID, id string, in GradeInput) (*models.GradeEntry, error) {
	entry, err := s.grades.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.TeacherID != teacherID {
		return nil, models.NewUnauthorizedError("only the recording teacher can modify this entry")
	}

	in.WorkspaceID = entry.WorkspaceID
	if err := in.validate(); err != nil {
		return nil, err
	}

	entry.StudentName = strings.TrimSpace(in.StudentName)
	entry.Subject = strings.TrimSpace(in.Subject)
	entry.Score = in.Score
	entry.Term = strings.TrimSpace(in.Term)
	if err := s.grades.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *GradeService) Delete(ctx context.Context, teacherID, id string) error {
	entry, err := s.grades.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.TeacherID != teacherID {
		return models.NewUnauthorizedError("only the recording teacher can delete this entry")
	}
	return s.grades.Delete(ctx, id)
}
