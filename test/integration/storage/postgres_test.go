//go:build integration

package storage_test

import (
	"testing"

	"fdk/internal/storage"
	_ "fdk/internal/storage/postgres"
	"fdk/test/testutil"
	"fdk/test/testutil/containers"
	"fdk/test/testutil/fixtures"
)

func TestPostgresStore_Integration(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := testutil.TestContext(t)

	cm := containers.NewManager(t)
	pgCfg := containers.DefaultPostgresConfig()
	pgContainer, err := cm.StartPostgres(ctx, pgCfg)
	if err != nil {
		t.Fatalf("failed to start postgres: %v", err)
	}

	dataDir := testutil.TempDir(t, "postgres")
	dsn := containers.PostgresDSN(pgContainer, pgCfg)

	store, err := storage.Open(ctx, fixtures.PostgresStorageConfig(dsn), dataDir)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	if store.Backend() != storage.BackendPostgres {
		t.Errorf("expected backend %s, got %s", storage.BackendPostgres, store.Backend())
	}

	runStoreSuite(t, ctx, store)
}

func TestPostgresStore_MigrationsAreIdempotent(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := testutil.TestContext(t)

	cm := containers.NewManager(t)
	pgCfg := containers.DefaultPostgresConfig()
	pgContainer, err := cm.StartPostgres(ctx, pgCfg)
	if err != nil {
		t.Fatalf("failed to start postgres: %v", err)
	}

	dataDir := testutil.TempDir(t, "postgres-migrate")
	cfg := fixtures.PostgresStorageConfig(containers.PostgresDSN(pgContainer, pgCfg))

	// Open runs migrations; a second open against the same database
	// must find the schema already in place.
	store, err := storage.Open(ctx, cfg, dataDir)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Save(ctx, fixtures.DetailObject("OBJ_MIG_1", "Migration Object", "Bridges")); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	store.Close()

	reopened, err := storage.Open(ctx, cfg, dataDir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.Get(ctx, "OBJ_MIG_1"); err != nil {
		t.Errorf("object lost across re-migration: %v", err)
	}
}
