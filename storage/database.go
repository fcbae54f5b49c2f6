package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
)

// Connect opens the postgres database behind the service. The caller owns the
// handle and passes it down explicitly; there is no package-level singleton.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.VerificationRequest{},
		&models.ConsentRecord{},
		&models.Document{},
		&models.Notification{},
		&models.AuditLog{},
	)
}
