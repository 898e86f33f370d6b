package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fdk/internal/domain"

	"github.com/jackc/pgx/v5"
)

// IsFresh reports whether the stored release matches currentRelease.
func (s *Store) IsFresh(ctx context.Context, currentRelease domain.ReleaseInfo) bool {
	var releaseName string
	err := s.pool.QueryRow(ctx,
		"SELECT release_name FROM cache_metadata WHERE id = 1",
	).Scan(&releaseName)
	if err != nil {
		return false
	}

	stored := domain.ReleaseInfo{Name: releaseName}
	return stored.Matches(currentRelease)
}

// UpdateMetadata records the catalog size and release after a refresh.
func (s *Store) UpdateMetadata(ctx context.Context, objectCount int, release domain.ReleaseInfo) error {
	var releaseDate *time.Time
	if !release.Date.IsZero() {
		d := release.Date.UTC()
		releaseDate = &d
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO cache_metadata (id, object_count, release_name, release_date, last_updated)
		VALUES (1, $1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			object_count = excluded.object_count,
			release_name = excluded.release_name,
			release_date = excluded.release_date,
			last_updated = excluded.last_updated
	`,
		objectCount,
		release.Name,
		releaseDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update cache metadata: %w", err)
	}

	return nil
}

// Stats returns cache statistics, judging freshness against currentRelease.
func (s *Store) Stats(ctx context.Context, currentRelease domain.ReleaseInfo) (domain.CacheStats, error) {
	var stats domain.CacheStats

	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM objects",
	).Scan(&stats.ObjectCount); err != nil {
		return stats, fmt.Errorf("failed to count objects: %w", err)
	}

	var releaseName string
	var lastUpdated time.Time
	err := s.pool.QueryRow(ctx,
		"SELECT release_name, last_updated FROM cache_metadata WHERE id = 1",
	).Scan(&releaseName, &lastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("failed to read cache metadata: %w", err)
	}

	stats.LastUpdated = &lastUpdated
	stats.Release = releaseName

	stored := domain.ReleaseInfo{Name: releaseName}
	stats.IsFresh = stored.Matches(currentRelease)

	return stats, nil
}

// Clear removes all cached objects and metadata.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM objects"); err != nil {
		return fmt.Errorf("failed to clear objects: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM cache_metadata"); err != nil {
		return fmt.Errorf("failed to clear cache metadata: %w", err)
	}

	return tx.Commit(ctx)
}
