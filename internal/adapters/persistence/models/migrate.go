package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the application tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Loan{},
	)
}
