//go:build integration

// Package storage_test contains integration tests for the object cache
// backends. The same suite runs against SQLite and PostgreSQL.
package storage_test

import (
	"context"
	"testing"

	"fdk/internal/storage"
	"fdk/test/testutil/fixtures"
)

// runStoreSuite exercises the Store contract against a live backend.
// The store must be freshly migrated and empty.
func runStoreSuite(t *testing.T, ctx context.Context, store storage.Store) {
	t.Helper()

	t.Run("ping", func(t *testing.T) {
		if err := store.Ping(ctx); err != nil {
			t.Fatalf("failed to ping: %v", err)
		}
	})

	t.Run("object round trip", func(t *testing.T) {
		obj := fixtures.DetailObject("OBJ_SUITE_1", "Suite Object", "Bridges")
		if err := store.Save(ctx, obj); err != nil {
			t.Fatalf("failed to save object: %v", err)
		}

		got, err := store.Get(ctx, obj.ID)
		if err != nil {
			t.Fatalf("failed to get object: %v", err)
		}
		if got.Name != obj.Name || got.Domain != obj.Domain {
			t.Errorf("object fields lost: got %q in %q", got.Name, got.Domain)
		}
		if got.Description != obj.Description {
			t.Errorf("description lost: %q", got.Description)
		}
		if len(got.PropertySets) != 2 {
			t.Fatalf("expected 2 property sets, got %d", len(got.PropertySets))
		}
		length := got.PropertySets[0].Properties[0]
		if length.Name != "Length" || length.Unit != "m" {
			t.Errorf("unexpected first property: %+v", length)
		}
		if v, ok := length.Value.AsNumber(); !ok || v != 42.5 {
			t.Errorf("length value lost: %v", length.Value)
		}
		if len(got.Relationships["references"]) != 2 {
			t.Errorf("relationships lost: %v", got.Relationships)
		}
		if len(got.Classifications) != 1 {
			t.Errorf("classifications lost: %v", got.Classifications)
		}
		if !got.IsDetail() {
			t.Error("expected a detail object")
		}
	})

	t.Run("summary never downgrades detail", func(t *testing.T) {
		summary := fixtures.SummaryObject("OBJ_SUITE_1", "Suite Object", "Bridges")
		if err := store.Save(ctx, summary); err != nil {
			t.Fatalf("failed to save summary: %v", err)
		}

		got, err := store.Get(ctx, summary.ID)
		if err != nil {
			t.Fatalf("failed to get object: %v", err)
		}
		if !got.IsDetail() {
			t.Error("summary save downgraded a detail record")
		}
	})

	t.Run("detail save updates in place", func(t *testing.T) {
		updated := fixtures.DetailObject("OBJ_SUITE_1", "Renamed Object", "Bridges")
		if err := store.Save(ctx, updated); err != nil {
			t.Fatalf("failed to update object: %v", err)
		}

		got, err := store.Get(ctx, updated.ID)
		if err != nil {
			t.Fatalf("failed to get object: %v", err)
		}
		if got.Name != "Renamed Object" {
			t.Errorf("detail save did not update, name still %q", got.Name)
		}
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := store.Get(ctx, "OBJ_SUITE_MISSING")
		if !storage.IsNotFound(err) {
			t.Errorf("expected a not-found error, got %v", err)
		}
	})

	t.Run("list and count filters", func(t *testing.T) {
		for _, obj := range fixtures.Catalog(9) {
			if err := store.Save(ctx, obj); err != nil {
				t.Fatalf("failed to save catalog fixture: %v", err)
			}
		}
		// 9 fixtures plus OBJ_SUITE_1 from the earlier subtests

		all, err := store.List(ctx, storage.ListFilter{})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(all) != 10 {
			t.Errorf("expected 10 objects, got %d", len(all))
		}

		bridges, err := store.Count(ctx, storage.ListFilter{Domain: "bridges"})
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if bridges != 4 {
			t.Errorf("expected 4 bridge objects, got %d", bridges)
		}

		byName, err := store.List(ctx, storage.ListFilter{Search: "object 3"})
		if err != nil {
			t.Fatalf("failed to search: %v", err)
		}
		if len(byName) != 1 || byName[0].Name != "Object 3" {
			t.Errorf("unexpected search result: %+v", byName)
		}

		details, err := store.Count(ctx, storage.ListFilter{DetailOnly: true})
		if err != nil {
			t.Fatalf("failed to count details: %v", err)
		}
		if details != 6 {
			t.Errorf("expected 6 detail objects, got %d", details)
		}

		page, err := store.List(ctx, storage.ListFilter{Limit: 4, Offset: 8})
		if err != nil {
			t.Fatalf("failed to page: %v", err)
		}
		if len(page) != 2 {
			t.Errorf("expected 2 objects on the last page, got %d", len(page))
		}
	})

	t.Run("entries view", func(t *testing.T) {
		entries, err := store.Entries(ctx)
		if err != nil {
			t.Fatalf("failed to load entries: %v", err)
		}
		if len(entries) != 10 {
			t.Errorf("expected 10 entries, got %d", len(entries))
		}
		if e, ok := entries["OBJ_0001"]; !ok || !e.HasDetail || e.Domain != "Bridges" {
			t.Errorf("unexpected entry for OBJ_0001: %+v (ok %v)", e, ok)
		}
		if e, ok := entries["OBJ_0002"]; !ok || e.HasDetail {
			t.Errorf("expected a summary entry for OBJ_0002, got %+v (ok %v)", e, ok)
		}
	})

	t.Run("metadata and stats", func(t *testing.T) {
		release := fixtures.Release("2025-03")
		if err := store.UpdateMetadata(ctx, 10, release); err != nil {
			t.Fatalf("failed to update metadata: %v", err)
		}

		stats, err := store.Stats(ctx, release)
		if err != nil {
			t.Fatalf("failed to read stats: %v", err)
		}
		if stats.ObjectCount != 10 {
			t.Errorf("expected 10 cached objects, got %d", stats.ObjectCount)
		}
		if stats.Release != "2025-03" {
			t.Errorf("expected release 2025-03, got %q", stats.Release)
		}
		if !stats.IsFresh {
			t.Error("expected a fresh cache for the same release")
		}
		if stats.LastUpdated == nil {
			t.Error("expected a last-updated timestamp")
		}

		if store.IsFresh(ctx, fixtures.Release("2025-06")) {
			t.Error("cache should be stale for a newer release")
		}
	})

	t.Run("clear", func(t *testing.T) {
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}

		count, err := store.Count(ctx, storage.ListFilter{})
		if err != nil {
			t.Fatalf("failed to count after clear: %v", err)
		}
		if count != 0 {
			t.Errorf("expected an empty cache, got %d objects", count)
		}

		if _, err := store.Get(ctx, "OBJ_SUITE_1"); !storage.IsNotFound(err) {
			t.Errorf("expected a not-found error after clear, got %v", err)
		}

		stats, err := store.Stats(ctx, fixtures.Release("2025-03"))
		if err != nil {
			t.Fatalf("failed to read stats after clear: %v", err)
		}
		if stats.ObjectCount != 0 || stats.LastUpdated != nil {
			t.Errorf("expected reset stats, got %+v", stats)
		}
	})
}
