package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahkan/internal/models"
)

type stubGradeRepo struct {
	createFunc  func(ctx context.Context, entry *models.GradeEntry) error
	getByIDFunc func(ctx context.Context, id string) (*models.GradeEntry, error)
	updateFunc  func(ctx context.Context, entry *models.GradeEntry) error
	deleteFunc  func(ctx context.Context, id string) error
}

func (s *stubGradeRepo) Create(ctx context.Context, entry *models.GradeEntry) error {
	if s.createFunc != nil {
		return s.createFunc(ctx, entry)
	}
	return nil
}

func (s *stubGradeRepo) GetByID(ctx context.Context, id string) (*models.GradeEntry, error) {
	if s.getByIDFunc != nil {
		return s.getByIDFunc(ctx, id)
	}
	return nil, models.NewNotFoundError("grade entry", id)
}

func (s *stubGradeRepo) ListByWorkspace(context.Context, string, int, int) ([]models.GradeEntry, int64, error) {
	return nil, 0, nil
}

func (s *stubGradeRepo) ListByTeacher(context.Context, string, string, int, int) ([]models.GradeEntry, int64, error) {
	return nil, 0, nil
}

func (s *stubGradeRepo) Update(ctx context.Context, entry *models.GradeEntry) error {
	if s.updateFunc != nil {
		return s.updateFunc(ctx, entry)
	}
	return nil
}

func (s *stubGradeRepo) Delete(ctx context.Context, id string) error {
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, id)
	}
	return nil
}

type stubWorkspaceRepo struct {
	isMemberFunc func(ctx context.Context, workspaceID, userID string) (bool, error)
}

func (s *stubWorkspaceRepo) Create(context.Context, *models.Workspace) error { return nil }
func (s *stubWorkspaceRepo) GetByID(context.Context, string) (*models.Workspace, error) {
	return nil, nil
}
func (s *stubWorkspaceRepo) ListForUser(context.Context, string) ([]models.Workspace, error) {
	return nil, nil
}
func (s *stubWorkspaceRepo) AddMember(context.Context, string, string) error    { return nil }
func (s *stubWorkspaceRepo) RemoveMember(context.Context, string, string) error { return nil }
func (s *stubWorkspaceRepo) ListMembers(context.Context, string) ([]models.User, error) {
	return nil, nil
}

func (s *stubWorkspaceRepo) IsMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	if s.isMemberFunc != nil {
		return s.isMemberFunc(ctx, workspaceID, userID)
	}
	return true, nil
}

func TestGradeCreateValidation(t *testing.T) {
	svc := NewGradeService(&stubGradeRepo{}, &stubWorkspaceRepo{})

	cases := []struct {
		name string
		in   GradeInput
	}{
		{"missing workspace", GradeInput{StudentName: "Ani", Subject: "Matematika", Score: 80}},
		{"missing student", GradeInput{WorkspaceID: "ws-1", Subject: "Matematika", Score: 80}},
		{"missing subject", GradeInput{WorkspaceID: "ws-1", StudentName: "Ani", Score: 80}},
		{"score too high", GradeInput{WorkspaceID: "ws-1", StudentName: "Ani", Subject: "Matematika", Score: 101}},
		{"negative score", GradeInput{WorkspaceID: "ws-1", StudentName: "Ani", Subject: "Matematika", Score: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "teacher-1", tc.in)
			require.Error(t, err)

			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestGradeCreateRequiresMembership(t *testing.T) {
	workspaces := &stubWorkspaceRepo{
		isMemberFunc: func(_ context.Context, _, _ string) (bool, error) { return false, nil },
	}
	svc := NewGradeService(&stubGradeRepo{}, workspaces)

	_, err := svc.Create(context.Background(), "teacher-1", GradeInput{
		WorkspaceID: "ws-1", StudentName: "Ani", Subject: "Matematika", Score: 80,
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestGradeCreateRecordsTeacher(t *testing.T) {
	var created *models.GradeEntry
	grades := &stubGradeRepo{
		createFunc: func(_ context.Context, entry *models.GradeEntry) error {
			created = entry
			return nil
		},
	}
	svc := NewGradeService(grades, &stubWorkspaceRepo{})

	entry, err := svc.Create(context.Background(), "teacher-1", GradeInput{
		WorkspaceID: "ws-1", StudentName: "  Ani  ", Subject: "Matematika", Score: 88.5, Term: "2025/1",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "teacher-1", entry.TeacherID)
	assert.Equal(t, "Ani", entry.StudentName)
	assert.Equal(t, 88.5, entry.Score)
}

func TestGradeUpdateOwnershipCheck(t *testing.T) {
	grades := &stubGradeRepo{
		getByIDFunc: func(_ context.Context, id string) (*models.GradeEntry, error) {
			return &models.GradeEntry{ID: id, WorkspaceID: "ws-1", TeacherID: "teacher-1", StudentName: "Ani", Subject: "Matematika", Score: 80}, nil
		},
	}
	svc := NewGradeService(grades, &stubWorkspaceRepo{})

	_, err := svc.Update(context.Background(), "teacher-2", "entry-1", GradeInput{
		StudentName: "Ani", Subject: "Matematika", Score: 90,
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)

	updated, err := svc.Update(context.Background(), "teacher-1", "entry-1", GradeInput{
		StudentName: "Ani", Subject: "Matematika", Score: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, updated.Score)
}

func TestGradeDeleteOwnershipCheck(t *testing.T) {
	deleted := false
	grades := &stubGradeRepo{
		getByIDFunc: func(_ context.Context, id string) (*models.GradeEntry, error) {
			return &models.GradeEntry{ID: id, TeacherID: "teacher-1"}, nil
		},
		deleteFunc: func(_ context.Context, _ string) error {
			deleted = true
			return nil
		},
	}
	svc := NewGradeService(grades, &stubWorkspaceRepo{})

	err := svc.Delete(context.Background(), "teacher-2", "entry-1")
	require.Error(t, err)
	assert.False(t, deleted)

	require.NoError(t, svc.Delete(context.Background(), "teacher-1", "entry-1"))
	assert.True(t, deleted)
}
