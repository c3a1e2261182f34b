package postgres

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationResult reports the schema version before and after Migrate.
type MigrationResult struct {
	PreMigrationVersion  uint
	PostMigrationVersion uint
}

// Migrate brings the schema up to the latest embedded migration.
func Migrate(db *sql.DB) (MigrationResult, error) {
	var result MigrationResult

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return result, fmt.Errorf("iofs.New: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return result, fmt.Errorf("postgres.WithInstance: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return result, fmt.Errorf("migrate.NewWithInstance: %w", err)
	}

	pre, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("version before migration: %w", err)
	}
	result.PreMigrationVersion = pre

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return result, fmt.Errorf("migrate up: %w", err)
	}

	post, _, err := m.Version()
	if err != nil {
		return result, fmt.Errorf("version after migration: %w", err)
	}
	result.PostMigrationVersion = post
	return result, nil
}
