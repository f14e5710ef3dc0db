package db

import (
	"fmt"
	"time"

	"certledger/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection and migrates the schema. The handle
// is returned to the caller for explicit wiring; no package-level singleton.
func Connect(dsn string) (*gorm.DB, error) {
	// TranslateError lets callers match unique-index violations as
	// gorm.ErrDuplicatedKey instead of driver-specific errors.
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connection to db failed: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get db from GORM: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := gdb.AutoMigrate(&models.Account{}); err != nil {
		return nil, fmt.Errorf("automigration failed for Account: %w", err)
	}
	if err := gdb.AutoMigrate(&models.Institution{}); err != nil {
		return nil, fmt.Errorf("automigration failed for Institution: %w", err)
	}

	return gdb, nil
}
