package database

import (
	"fmt"

	"quill/internal/models"

	"gorm.io/gorm"
)

// Migrate runs schema migrations for all registered models and installs the
// indexes the application relies on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Storage-level backstop for the single-admin invariant. The partial
	// unique index rejects a second admin row even if an application-level
	// check is bypassed. Supported by both PostgreSQL and SQLite.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_single_admin
		 ON users (role) WHERE role = 'admin' AND deleted_at IS NULL`,
	).Error; err != nil {
		return fmt.Errorf("create single-admin index: %w", err)
	}

	return nil
}
