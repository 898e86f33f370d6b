// Package coverage analyzes how much of the catalog the local cache
// holds, and what a full download would still have to fetch.
//
// The analyzer is a pure function over the source listing and the
// cache's entries view, so it needs neither network nor database.
package coverage

import (
	"fdk/internal/domain"
	"fdk/internal/storage"
)

// DefaultSecondsPerObject is the download time estimate per object,
// assuming the default fetch concurrency.
const DefaultSecondsPerObject = 0.5

// Options controls the analysis.
type Options struct {
	// CheckDetailLevel distinguishes summary-only cache entries from
	// detail entries. When false, any cached entry counts as covered.
	CheckDetailLevel bool

	// IncludeMissingIDs collects the ids that a download would fetch,
	// in listing order.
	IncludeMissingIDs bool

	// ByDomain adds a per-domain breakdown.
	ByDomain bool

	// SecondsPerObject overrides the download time estimate per object.
	// Zero or negative means DefaultSecondsPerObject.
	SecondsPerObject float64
}

// Analyze computes coverage of the cache over the given listing objects.
// The objects slice is the catalog listing, already filtered by the
// caller if a domain filter applies; cached is the store's entries view.
func Analyze(objects []*domain.CatalogObject, cached map[domain.ObjectID]storage.Entry, opts Options) domain.CoverageStats {
	stats := domain.CoverageStats{
		TotalObjects: len(objects),
	}

	var byDomain map[string]domain.DomainCoverage
	if opts.ByDomain {
		byDomain = make(map[string]domain.DomainCoverage)
	}

	for _, obj := range objects {
		entry, ok := cached[obj.ID]

		var dc domain.DomainCoverage
		if opts.ByDomain {
			dc = byDomain[obj.Domain]
			dc.Total++
		}

		needsDownload := false
		switch {
		case !ok:
			stats.NotCached++
			dc.Missing++
			needsDownload = true
		case opts.CheckDetailLevel && !entry.HasDetail:
			stats.CachedSummaryOnly++
			dc.SummaryOnly++
			needsDownload = true
		default:
			stats.CachedWithDetails++
			dc.Detail++
		}

		if needsDownload && opts.IncludeMissingIDs {
			stats.MissingObjectIDs = append(stats.MissingObjectIDs, obj.ID)
		}
		if opts.ByDomain {
			byDomain[obj.Domain] = dc
		}
	}

	if stats.TotalObjects > 0 {
		stats.CoveragePercentage = float64(stats.CachedWithDetails) / float64(stats.TotalObjects) * 100
	}

	if needing := stats.NotCached + stats.CachedSummaryOnly; needing > 0 {
		stats.EstimatedDownloadSeconds = EstimateSeconds(needing, opts.SecondsPerObject)
	}

	stats.CoverageByDomain = byDomain

	return stats
}

// EstimateSeconds estimates the wall time to download count objects.
func EstimateSeconds(count int, secondsPerObject float64) int {
	if count <= 0 {
		return 0
	}
	if secondsPerObject <= 0 {
		secondsPerObject = DefaultSecondsPerObject
	}
	return int(float64(count) * secondsPerObject)
}
