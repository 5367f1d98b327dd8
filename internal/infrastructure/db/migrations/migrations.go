// Package migrations creates the users table.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/mohammadpnp/graph-user-import/internal/config"
	"github.com/mohammadpnp/graph-user-import/internal/infrastructure/db/models"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Up brings the schema to the latest version. PostgreSQL runs the embedded SQL
// migrations; SQLite uses gorm AutoMigrate.
func Up(db *gorm.DB, driver string) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	switch driver {
	case config.DriverPostgres:
		return upPostgres(db)
	case config.DriverSQLite:
		if err := db.AutoMigrate(&models.User{}); err != nil {
			return fmt.Errorf("failed to auto-migrate users: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported driver for migrations: %q", driver)
	}
}

func upPostgres(db *gorm.DB) error {
	m, err := newPostgresMigrate(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// Version reports the applied migration version for PostgreSQL.
func Version(db *gorm.DB) (uint, bool, error) {
	m, err := newPostgresMigrate(db)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, nil
}

func newPostgresMigrate(db *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	source, err := iofs.New(sqlFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
