package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sahkan/internal/config"
	"sahkan/internal/database"
	"sahkan/internal/drive"
	"sahkan/internal/models"
	"sahkan/internal/repository"
	"sahkan/internal/service"
)

type serverFixture struct {
	s     *Server
	app   *fiber.App
	db    *gorm.DB
	store *drive.MemStore

	admin    models.User
	reviewer models.User
	outsider models.User

	workspace models.Workspace
	file      models.File
}

// newServerFixture builds a Server over an in-memory SQLite DB and a MemStore.
// Requests authenticate with real tokens so AuthRequired runs for real.
func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store := drive.NewMemStore()
	cfg := &config.Config{
		JWTSecret:    "test-secret-not-for-production",
		DriveBaseURL: "memory",
	}

	s := &Server{
		config:           cfg,
		db:               db,
		store:            store,
		userRepo:         repository.NewUserRepository(db),
		workspaceRepo:    repository.NewWorkspaceRepository(db),
		fileRepo:         repository.NewFileRepository(db),
		approvalRepo:     repository.NewApprovalRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		gradeRepo:        repository.NewGradeRepository(db),
	}
	s.approvalService = service.NewApprovalService(
		s.approvalRepo, s.fileRepo, s.userRepo, s.notificationRepo, store, false)
	s.gradeService = service.NewGradeService(s.gradeRepo, s.workspaceRepo)

	app := fiber.New(fiber.Config{BodyLimit: 32 * 1024 * 1024})
	s.SetupRoutes(app)

	f := &serverFixture{
		s:        s,
		app:      app,
		db:       db,
		store:    store,
		admin:    models.User{Name: "Maya Admin", Email: "maya@example.com", Password: "x", IsAdmin: true},
		reviewer: models.User{Name: "Xavier Penilai", Email: "x@example.com", Password: "x"},
		outsider: models.User{Name: "Zul Tamu", Email: "zul@example.com", Password: "x"},
	}
	require.NoError(t, db.Create(&f.admin).Error)
	require.NoError(t, db.Create(&f.reviewer).Error)
	require.NoError(t, db.Create(&f.outsider).Error)

	f.workspace = models.Workspace{Name: "Tata Usaha", OwnerID: f.admin.ID}
	require.NoError(t, db.Create(&f.workspace).Error)
	require.NoError(t, db.Create(&models.WorkspaceMember{WorkspaceID: f.workspace.ID, UserID: f.admin.ID}).Error)
	require.NoError(t, db.Create(&models.WorkspaceMember{WorkspaceID: f.workspace.ID, UserID: f.reviewer.ID}).Error)

	f.file = models.File{ID: "drv-laporan", WorkspaceID: f.workspace.ID, OwnerID: f.admin.ID}
	require.NoError(t, db.Create(&f.file).Error)
	store.Put(f.file.ID, "laporan.pdf", "application/pdf", []byte("pdf content"))

	return f
}

// request performs an authenticated JSON request against the fixture app.
func (f *serverFixture) request(t *testing.T, method, target, userID string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	f.authorize(t, req, userID)

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// authorize attaches a freshly minted Bearer token for the given user.
func (f *serverFixture) authorize(t *testing.T, req *http.Request, userID string) {
	t.Helper()
	if userID == "" {
		return
	}
	token, err := f.s.generateToken(userID, "test user")
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestParsePaginationDefaults(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePagination(c, 25)
		return c.JSON(fiber.Map{"page": p.Page, "limit": p.Limit})
	})

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := decodeBody(t, resp)

	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(25), body["limit"])
}

func TestParsePaginationClampsLimit(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePagination(c, 25)
		return c.JSON(fiber.Map{"page": p.Page, "limit": p.Limit})
	})

	req := httptest.NewRequest(http.MethodGet, "/items?page=0&limit=5000", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := decodeBody(t, resp)

	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(maxPaginationLimit), body["limit"])
}

func TestRequireParamRejectsEmpty(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id?", func(c *fiber.Ctx) error {
		id, err := requireParam(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireWorkspaceMember(t *testing.T) {
	f := newServerFixture(t)

	// outsider is neither member nor admin
	resp := f.request(t, http.MethodGet, "/api/approvals?workspaceId="+f.workspace.ID, f.outsider.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/api/approvals?workspaceId="+f.workspace.ID, f.reviewer.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
