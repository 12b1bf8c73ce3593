package db

import (
	"fmt"
	"log"
	"os"
	"strings"

	"inkpress/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the database named by DATABASE_URL and runs migrations.
// A postgres:// URL selects the Postgres driver; a sqlite:// URL (the
// default) selects the pure-Go SQLite driver.
func Init() (*gorm.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "sqlite://inkpress.db"
		log.Println("DATABASE_URL not set, defaulting to 'sqlite://inkpress.db'")
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dbURL, "postgres://"):
		dialector = postgres.Open(dbURL)
	case strings.HasPrefix(dbURL, "sqlite://"):
		dialector = sqlite.Open(strings.TrimPrefix(dbURL, "sqlite://"))
	default:
		return nil, fmt.Errorf("invalid DATABASE_URL %q: must start with postgres:// or sqlite://", dbURL)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Map driver duplicate-key errors to gorm.ErrDuplicatedKey so the
		// ledger and slug races can recover by re-reading the winning row.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return gdb, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.Interaction{},
		&models.AdUnit{},
	)
}
