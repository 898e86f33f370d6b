// Package migrate applies the embedded schema migrations for the
// object cache backends.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql
var sqliteFS embed.FS

//go:embed migrations/postgres/*.sql
var postgresFS embed.FS

// migrationsTable keeps migration bookkeeping away from application
// tables.
const migrationsTable = "fdk_schema_migrations"

// Manager applies the embedded migrations for one backend.
type Manager struct {
	m *migrate.Migrate
}

// NewSQLiteManager prepares migrations against an open SQLite handle.
// Closing the manager would close the handle, so stores that share
// their connection must not Close it.
func NewSQLiteManager(db *sql.DB) (*Manager, error) {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{
		MigrationsTable: migrationsTable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	return newManager(driver, sqliteFS, "migrations/sqlite")
}

// NewPostgresManager prepares migrations against an open PostgreSQL
// handle.
func NewPostgresManager(db *sql.DB) (*Manager, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: migrationsTable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	return newManager(driver, postgresFS, "migrations/postgres")
}

func newManager(driver database.Driver, fsys embed.FS, dir string) (*Manager, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "database", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Manager{m: m}, nil
}

// Up applies all pending migrations. An already-current schema is not
// an error. Locking is handled by the database driver.
func (mgr *Manager) Up(ctx context.Context) error {
	if err := mgr.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Close releases the source and database drivers.
func (mgr *Manager) Close() error {
	srcErr, dbErr := mgr.m.Close()
	return errors.Join(srcErr, dbErr)
}
