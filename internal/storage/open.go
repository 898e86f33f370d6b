package storage

import (
	"context"
	"fmt"
)

// Backend factories, set by the sqlite and postgres package inits to
// avoid import cycles.
var (
	OpenSQLite   func(ctx context.Context, cfg SQLiteConfig, dataDir string) (Store, error)
	OpenPostgres func(ctx context.Context, cfg PostgresConfig) (Store, error)
)

// Open creates a Store from the configuration and runs its migrations.
// The caller must import the sqlite and/or postgres packages to
// register the factories.
func Open(ctx context.Context, cfg Config, dataDir string) (Store, error) {
	if err := cfg.Validate(); err != nil {
		log.Error("invalid storage config", "error", err)
		return nil, err
	}

	store, err := openBackend(ctx, cfg, dataDir)
	if err != nil {
		log.Error("failed to open object cache", "backend", cfg.Backend, "error", err)
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		log.Error("failed to run migrations", "backend", cfg.Backend, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	log.Info("object cache opened", "backend", cfg.Backend)
	return store, nil
}

func openBackend(ctx context.Context, cfg Config, dataDir string) (Store, error) {
	switch cfg.Backend {
	case BackendSQLite:
		if OpenSQLite == nil {
			return nil, fmt.Errorf("sqlite backend not available; import fdk/internal/storage/sqlite")
		}
		store, err := OpenSQLite(ctx, cfg.SQLite, dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
		}
		return store, nil

	case BackendPostgres:
		if OpenPostgres == nil {
			return nil, fmt.Errorf("postgres backend not available; import fdk/internal/storage/postgres")
		}
		store, err := OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres cache: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Backend)
}
