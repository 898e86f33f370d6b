package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fdk/internal/domain"
)

// IsFresh reports whether the stored release matches currentRelease.
func (s *Store) IsFresh(ctx context.Context, currentRelease domain.ReleaseInfo) bool {
	var releaseName string
	err := s.db.QueryRowContext(ctx,
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
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var releaseDate sql.NullString
	if !release.Date.IsZero() {
		releaseDate = sql.NullString{
			String: release.Date.UTC().Format(time.RFC3339Nano),
			Valid:  true,
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_metadata (id, object_count, release_name, release_date, last_updated)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			object_count = excluded.object_count,
			release_name = excluded.release_name,
			release_date = excluded.release_date,
			last_updated = excluded.last_updated
	`,
		objectCount,
		release.Name,
		releaseDate,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to update cache metadata: %w", err)
	}

	return nil
}

// Stats returns cache statistics, judging freshness against currentRelease.
func (s *Store) Stats(ctx context.Context, currentRelease domain.ReleaseInfo) (domain.CacheStats, error) {
	var stats domain.CacheStats

	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM objects",
	).Scan(&stats.ObjectCount); err != nil {
		return stats, fmt.Errorf("failed to count objects: %w", err)
	}

	var releaseName, lastUpdated string
	err := s.db.QueryRowContext(ctx,
		"SELECT release_name, last_updated FROM cache_metadata WHERE id = 1",
	).Scan(&releaseName, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("failed to read cache metadata: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, lastUpdated); err == nil {
		stats.LastUpdated = &t
	}
	stats.Release = releaseName

	stored := domain.ReleaseInfo{Name: releaseName}
	stats.IsFresh = stored.Matches(currentRelease)

	return stats, nil
}

// Clear removes all cached objects and metadata.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM objects"); err != nil {
		return fmt.Errorf("failed to clear objects: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM cache_metadata"); err != nil {
		return fmt.Errorf("failed to clear cache metadata: %w", err)
	}

	return tx.Commit()
}
