// Package storage provides the persisted object cache layer.
//
// A store is a best-effort local cache of the remote catalog, never an
// authoritative source. Saves are idempotent upserts per object id, and a
// summary record never replaces an existing detail record.
package storage

import (
	"context"
	"io"

	"fdk/internal/domain"
)

// Store is the object cache interface. It abstracts the underlying
// database implementation (SQLite or PostgreSQL).
//
// Implementations must be safe for concurrent use.
type Store interface {
	io.Closer

	// IsFresh reports whether the cached release matches currentRelease.
	// A cache with no stored release is never fresh.
	IsFresh(ctx context.Context, currentRelease domain.ReleaseInfo) bool

	// Get retrieves a cached object by id.
	// Returns ErrNotFound when the object is not cached.
	Get(ctx context.Context, id domain.ObjectID) (*domain.CatalogObject, error)

	// Save stores an object, upserting by id. Saving a summary object never
	// overwrites an existing detail record for the same id.
	Save(ctx context.Context, obj *domain.CatalogObject) error

	// List returns cached objects matching the filter.
	List(ctx context.Context, filter ListFilter) ([]*domain.CatalogObject, error)

	// Count returns the number of cached objects matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)

	// Entries returns a summary of every cached object, keyed by id.
	// It avoids loading full payloads and backs coverage analysis.
	Entries(ctx context.Context) (map[domain.ObjectID]Entry, error)

	// UpdateMetadata records the catalog size and release after a refresh.
	UpdateMetadata(ctx context.Context, objectCount int, release domain.ReleaseInfo) error

	// Stats returns cache statistics, judging freshness against
	// currentRelease. Pass the zero release when it is unknown.
	Stats(ctx context.Context, currentRelease domain.ReleaseInfo) (domain.CacheStats, error)

	// Clear removes all cached objects and metadata.
	Clear(ctx context.Context) error

	// Ping checks connectivity to the backing database.
	Ping(ctx context.Context) error

	// Backend returns the storage backend type.
	Backend() BackendType

	// Migrate runs schema migrations.
	Migrate(ctx context.Context) error
}

// Entry is a lightweight view of a cached object used for coverage
// analysis and update planning.
type Entry struct {
	// HasDetail reports whether the cached record carries property sets.
	HasDetail bool

	// Domain is the object's domain.
	Domain string
}

// ListFilter defines filtering options for cached object queries.
// The zero filter matches everything.
type ListFilter struct {
	// Domain filters by domain name, case-insensitive exact match.
	Domain string

	// Search filters by case-insensitive substring of the object name.
	Search string

	// DetailOnly restricts results to detail objects.
	DetailOnly bool

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip.
	Offset int
}

// BackendType represents the storage backend.
type BackendType string

const (
	BackendSQLite   BackendType = "sqlite"
	BackendPostgres BackendType = "postgres"
)

// String returns the backend name.
func (b BackendType) String() string {
	return string(b)
}

// IsValid checks if the backend type is known.
func (b BackendType) IsValid() bool {
	switch b {
	case BackendSQLite, BackendPostgres:
		return true
	default:
		return false
	}
}
