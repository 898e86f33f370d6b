// Package sqlite provides a SQLite implementation of the object cache.
// It is the default backend and needs no external services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fdk/internal/storage"
	"fdk/internal/storage/migrate"

	_ "modernc.org/sqlite"
)

// pragmas applied to every new connection. WAL keeps concurrent readers
// working during refresh runs; the busy timeout covers write contention
// between parallel fetch workers.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

// Store implements the storage.Store interface using SQLite.
type Store struct {
	db  *sql.DB
	cfg storage.SQLiteConfig

	mu     sync.Mutex
	closed bool
}

// New opens (or creates) the cache database file.
func New(cfg storage.SQLiteConfig, dataDir string) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = filepath.Join(dataDir, "catalog.db")
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.Compression == "" {
		cfg.Compression = "zstd"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return &Store{db: db, cfg: cfg}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Backend returns the storage backend type.
func (s *Store) Backend() storage.BackendType {
	return storage.BackendSQLite
}

// Migrate brings the schema up to date. The migration manager shares
// the store's connection and is intentionally not closed.
func (s *Store) Migrate(ctx context.Context) error {
	mgr, err := migrate.NewSQLiteManager(s.db)
	if err != nil {
		return fmt.Errorf("failed to create migration manager: %w", err)
	}
	return mgr.Up(ctx)
}

// init registers the SQLite store factory with the storage package.
func init() {
	storage.OpenSQLite = func(ctx context.Context, cfg storage.SQLiteConfig, dataDir string) (storage.Store, error) {
		return New(cfg, dataDir)
	}
}
