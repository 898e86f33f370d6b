package service

import (
	"context"
	"time"

	"fdk/internal/coverage"
	"fdk/internal/domain"
)

// DownloadParams controls a full catalog download.
type DownloadParams struct {
	// Domain restricts the download to one domain. Empty means the
	// whole catalog.
	Domain   string
	Language string
	// MaxConcurrent overrides the fetcher's parallelism, 0 keeps the
	// configured default.
	MaxConcurrent int
}

// UpdateParams controls an incremental cache update.
type UpdateParams struct {
	Domain        string
	Language      string
	MaxConcurrent int
	// ForceRefresh re-downloads every object instead of only the
	// missing and summary-only ones.
	ForceRefresh bool
}

// CoverageParams scopes a coverage report.
type CoverageParams struct {
	Domain   string
	Language string
}

// DownloadAll fetches detail data for every listed object and caches
// it. Individual failures are counted, never fatal; only a failed
// listing aborts the run.
func (s *Service) DownloadAll(ctx context.Context, params DownloadParams) (domain.DownloadStats, error) {
	start := time.Now()
	language := normalizeLanguage(params.Language)

	listing, err := s.source.FetchListing(ctx, language)
	if err != nil {
		return domain.DownloadStats{}, err
	}

	objects := listing.Objects
	if params.Domain != "" {
		objects = filterByDomain(objects, params.Domain)
	}
	if len(objects) == 0 {
		return domain.DownloadStats{DurationSeconds: time.Since(start).Seconds()}, nil
	}

	batch := s.fetcher.FetchAll(ctx, objectIDs(objects), language, params.MaxConcurrent)

	stats := domain.DownloadStats{
		RunID:           batch.RunID,
		Total:           batch.Total,
		Downloaded:      batch.Downloaded,
		Failed:          batch.Failed,
		DurationSeconds: time.Since(start).Seconds(),
	}
	if s.store != nil {
		stats.Cached = batch.Downloaded
		if metaErr := s.store.UpdateMetadata(ctx, listing.TotalCount, listing.Release); metaErr != nil {
			log.Warn("metadata update failed", "error", metaErr)
		}
	}

	log.Info("catalog download finished",
		"run_id", stats.RunID,
		"total", stats.Total,
		"downloaded", stats.Downloaded,
		"failed", stats.Failed,
		"duration", time.Since(start),
	)
	return stats, nil
}

// UpdateCache downloads only what the cache is missing: objects not
// cached at all and objects cached without details. ForceRefresh
// widens that to everything. Without a cache there is nothing to
// update and the stats stay zero.
func (s *Service) UpdateCache(ctx context.Context, params UpdateParams) (domain.UpdateStats, error) {
	start := time.Now()
	if s.store == nil {
		log.Warn("cache update requested without a cache")
		return domain.UpdateStats{DurationSeconds: time.Since(start).Seconds()}, nil
	}

	language := normalizeLanguage(params.Language)
	listing, err := s.source.FetchListing(ctx, language)
	if err != nil {
		return domain.UpdateStats{}, err
	}

	objects := listing.Objects
	if params.Domain != "" {
		objects = filterByDomain(objects, params.Domain)
	}
	if len(objects) == 0 {
		return domain.UpdateStats{DurationSeconds: time.Since(start).Seconds()}, nil
	}

	toDownload, err := s.staleObjectIDs(ctx, objects, params.ForceRefresh)
	if err != nil {
		return domain.UpdateStats{}, err
	}

	total := len(objects)
	alreadyCached := total - len(toDownload)

	if len(toDownload) == 0 {
		log.Info("cache already complete", "total", total)
		return domain.UpdateStats{
			Total:           total,
			AlreadyCached:   alreadyCached,
			DurationSeconds: time.Since(start).Seconds(),
		}, nil
	}

	batch := s.fetcher.FetchAll(ctx, toDownload, language, params.MaxConcurrent)

	if metaErr := s.store.UpdateMetadata(ctx, listing.TotalCount, listing.Release); metaErr != nil {
		log.Warn("metadata update failed", "error", metaErr)
	}

	stats := domain.UpdateStats{
		RunID:           batch.RunID,
		Total:           total,
		Downloaded:      batch.Downloaded,
		AlreadyCached:   alreadyCached,
		Failed:          batch.Failed,
		DurationSeconds: time.Since(start).Seconds(),
	}

	log.Info("cache update finished",
		"run_id", stats.RunID,
		"total", stats.Total,
		"downloaded", stats.Downloaded,
		"already_cached", stats.AlreadyCached,
		"failed", stats.Failed,
		"duration", time.Since(start),
	)
	return stats, nil
}

// staleObjectIDs picks the objects an update must download.
func (s *Service) staleObjectIDs(ctx context.Context, objects []*domain.CatalogObject, force bool) ([]domain.ObjectID, error) {
	if force {
		return objectIDs(objects), nil
	}

	entries, err := s.store.Entries(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]domain.ObjectID, 0, len(objects))
	for _, obj := range objects {
		entry, ok := entries[obj.ID]
		if !ok || !entry.HasDetail {
			ids = append(ids, obj.ID)
		}
	}
	return ids, nil
}

// CacheCoverage reports how much of the catalog the cache holds at
// detail level. Without a cache everything counts as missing.
func (s *Service) CacheCoverage(ctx context.Context, params CoverageParams) (domain.CoverageStats, error) {
	listing, err := s.source.FetchListing(ctx, normalizeLanguage(params.Language))
	if err != nil {
		return domain.CoverageStats{}, err
	}

	objects := listing.Objects
	if params.Domain != "" {
		objects = filterByDomain(objects, params.Domain)
	}

	opts := coverage.Options{
		CheckDetailLevel:  true,
		IncludeMissingIDs: true,
		ByDomain:          params.Domain == "",
		SecondsPerObject:  s.secondsPerObject,
	}

	if s.store == nil {
		return coverage.Analyze(objects, nil, opts), nil
	}

	entries, err := s.store.Entries(ctx)
	if err != nil {
		return domain.CoverageStats{}, err
	}
	return coverage.Analyze(objects, entries, opts), nil
}
