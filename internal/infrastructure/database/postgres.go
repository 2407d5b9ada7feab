package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/yeasin2002/marketauth/internal/infrastructure/repositories"
)

// Open creates a new database connection with production-ready settings
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: "auth.",
		},
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate creates or updates the tables the auth subsystem owns.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBAccount{}); err != nil {
		return fmt.Errorf("failed to migrate accounts table: %w", err)
	}
	return nil
}
