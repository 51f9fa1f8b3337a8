package config

import (
	"context"
	"errors"

	"vgt-backoffice/internal/adapters/persistence/models"
	"vgt-backoffice/internal/core/services"
	"vgt-backoffice/internal/pkg/logger"

	"gorm.io/gorm"
)

// AdminSeeder creates the bootstrap administrator
type AdminSeeder interface {
	SeedAdmin(ctx context.Context, input *services.CreateUserInput) (bool, error)
}

// Seeder handles database seeding
type Seeder struct {
	db     *gorm.DB
	admins AdminSeeder
	admin  SeedAdminConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, admins AdminSeeder, admin SeedAdminConfig) *Seeder {
	return &Seeder{db: db, admins: admins, admin: admin}
}

// Run executes all seeders. Failures are logged and do not stop startup.
func (s *Seeder) Run(ctx context.Context) {
	logger.Info("Running database seeders")

	if err := s.seedBranches(ctx); err != nil {
		logger.Error("Branch seeder failed", err)
	}

	if err := s.seedAdminUser(ctx); err != nil {
		logger.Error("Admin seeder skipped", err)
	}

	logger.Success("Database seeding completed")
}

// seedAdminUser creates the first admin from SEED_ADMIN_* when no admin exists
func (s *Seeder) seedAdminUser(ctx context.Context) error {
	if s.admin.EmployeeCode == "" || s.admin.Password == "" {
		logger.Warning("SEED_ADMIN_CODE / SEED_ADMIN_PASSWORD not set, admin seed skipped")
		return nil
	}

	created, err := s.admins.SeedAdmin(ctx, &services.CreateUserInput{
		EmployeeCode: s.admin.EmployeeCode,
		FullName:     s.admin.FullName,
		Email:        s.admin.Email,
		Password:     s.admin.Password,
	})
	if err != nil {
		return err
	}
	if created {
		logger.Successf("Admin user created: %s", s.admin.EmployeeCode)
	}
	return nil
}

var defaultBranches = []models.Branch{
	{Code: "MRG", Name: "Margao Hub", Type: "hub", City: "Margao", State: "Goa", IsActive: true},
	{Code: "PNJ", Name: "Panjim Branch", Type: "branch", City: "Panjim", State: "Goa", IsActive: true},
	{Code: "VZG", Name: "Vasco Branch", Type: "branch", City: "Vasco", State: "Goa", IsActive: true},
	{Code: "MAP", Name: "Mapusa Hub", Type: "hub", City: "Mapusa", State: "Goa", IsActive: true},
}

// seedBranches inserts the default branches that are missing
func (s *Seeder) seedBranches(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	for _, b := range defaultBranches {
		var existing models.Branch
		err := db.Where("code = ?", b.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		branch := b
		if err := db.Create(&branch).Error; err != nil {
			return err
		}
		logger.Infof("   Created branch: %s (%s)", branch.Code, branch.Name)
	}
	return nil
}
