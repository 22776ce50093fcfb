package config

import (
	"log"

	"loandesk/internal/adapters/persistence/models"
	"loandesk/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	if err := s.seedManager(); err != nil {
		log.Printf("⚠️ Manager seeder skipped: %v", err)
	}
	return nil
}

// seedManager seeds the bootstrap manager account from env. Skipped when no
// credentials are configured or a manager already exists.
func (s *Seeder) seedManager() error {
	if s.cfg.Seed.ManagerEmail == "" || s.cfg.Seed.ManagerPassword == "" {
		return nil
	}

	var count int64
	s.db.Model(&models.User{}).Where("role = ?", models.RoleManager).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(s.cfg.Seed.ManagerPassword)
	if err != nil {
		return err
	}

	manager := &models.User{
		Name:     "Loan Manager",
		Email:    s.cfg.Seed.ManagerEmail,
		Password: hashed,
		Role:     models.RoleManager,
	}

	if err := s.db.Create(manager).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded manager account: %s", manager.Email)
	return nil
}
