package seed

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"sahkan/internal/models"
)

// Options configures a seeding run.
type Options struct {
	NumUsers     int
	NumDocuments int
	ShouldClean  bool
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll deletes all seeded data in dependency order.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.Notification{},
		&models.Approval{},
		&models.GradeEntry{},
		&models.File{},
		&models.WorkspaceMember{},
		&models.Workspace{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	log.Println("database cleared")
	return nil
}

// Run seeds users, workspaces, documents, approval processes and grades.
func (s *Seeder) Run(opts Options) error {
	if opts.NumUsers < 3 {
		opts.NumUsers = 3
	}
	if opts.NumDocuments < 1 {
		opts.NumDocuments = 1
	}

	admin, err := s.factory.CreateUser(true)
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	log.Printf("admin account: %s / %s", admin.Email, DefaultPassword)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser(false)
		if err != nil {
			return fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}

	workspace, err := s.factory.CreateWorkspace(admin, users)
	if err != nil {
		return fmt.Errorf("seeding workspace: %w", err)
	}

	for i := 0; i < opts.NumDocuments; i++ {
		file, err := s.factory.CreateFile(workspace, admin)
		if err != nil {
			return fmt.Errorf("seeding document %d: %w", i, err)
		}

		// two to four approvers per document
		count := 2 + s.factory.rng.Intn(3)
		if count > len(users) {
			count = len(users)
		}
		approvers := make([]*models.User, count)
		perm := s.factory.rng.Perm(len(users))
		for j := 0; j < count; j++ {
			approvers[j] = users[perm[j]]
		}

		if _, err := s.factory.CreateProcess(file, admin, approvers); err != nil {
			return fmt.Errorf("seeding process for document %d: %w", i, err)
		}
	}

	for _, user := range users {
		for i := 0; i < 3; i++ {
			if _, err := s.factory.CreateGrade(workspace, user); err != nil {
				return fmt.Errorf("seeding grades: %w", err)
			}
		}
	}

	log.Printf("seeded %d users, %d documents in workspace %q",
		len(users)+1, opts.NumDocuments, workspace.Name)
	return nil
}
