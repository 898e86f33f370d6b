// Package postgres provides a PostgreSQL implementation of the object cache,
// for deployments where the cache is shared between machines.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"fdk/internal/storage"
	"fdk/internal/storage/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql
)

// Store implements the storage.Store interface using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	cfg  storage.PostgresConfig

	mu     sync.Mutex
	closed bool
}

// New creates a new PostgreSQL store and verifies connectivity.
func New(ctx context.Context, cfg storage.PostgresConfig) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = 20
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	return &Store{
		pool: pool,
		cfg:  cfg,
	}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.pool.Close()
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Backend returns the storage backend type.
func (s *Store) Backend() storage.BackendType {
	return storage.BackendPostgres
}

// Migrate runs database migrations using golang-migrate over a dedicated
// stdlib connection. The pgx pool stays untouched.
func (s *Store) Migrate(ctx context.Context) error {
	db, err := sql.Open("pgx", s.cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open stdlib connection: %w", err)
	}
	defer db.Close()

	mgr, err := migrate.NewPostgresManager(db)
	if err != nil {
		return fmt.Errorf("failed to create migration manager: %w", err)
	}
	defer mgr.Close()

	return mgr.Up(ctx)
}

// init registers the PostgreSQL store factory with the storage package.
func init() {
	storage.OpenPostgres = func(ctx context.Context, cfg storage.PostgresConfig) (storage.Store, error) {
		return New(ctx, cfg)
	}
}
