package domain

import "time"

// CacheStats describes the current state of the object cache.
type CacheStats struct {
	// LastUpdated is when the cache metadata was last refreshed, nil if never.
	LastUpdated *time.Time `json:"last_updated,omitempty"`

	// ObjectCount is the number of cached objects.
	ObjectCount int `json:"object_count"`

	// IsFresh reports whether the cached release matches the current one.
	IsFresh bool `json:"is_fresh"`

	// Release is the release tag the cache was built from.
	Release string `json:"release,omitempty"`
}

// DomainCoverage breaks down cache coverage for a single domain.
type DomainCoverage struct {
	// Total is the number of catalog objects in the domain.
	Total int `json:"total"`

	// Detail is the number cached with full details.
	Detail int `json:"detail"`

	// SummaryOnly is the number cached without property sets.
	SummaryOnly int `json:"summary_only"`

	// Missing is the number not cached at all.
	Missing int `json:"missing"`
}

// CoverageStats is the aggregate cache coverage report.
//
// The three bucket counts always sum to TotalObjects.
type CoverageStats struct {
	// TotalObjects is the catalog size under analysis.
	TotalObjects int `json:"total_objects"`

	// CachedWithDetails is the number of detail-cached objects.
	CachedWithDetails int `json:"cached_with_details"`

	// CachedSummaryOnly is the number cached as summary only.
	CachedSummaryOnly int `json:"cached_summary_only"`

	// NotCached is the number of objects absent from the cache.
	NotCached int `json:"not_cached"`

	// CoveragePercentage is CachedWithDetails / TotalObjects * 100,
	// 0 when the catalog is empty.
	CoveragePercentage float64 `json:"coverage_percentage"`

	// EstimatedDownloadSeconds estimates how long fetching the missing and
	// summary-only objects would take. Heuristic, not a guarantee.
	EstimatedDownloadSeconds int `json:"estimated_download_seconds,omitempty"`

	// MissingObjectIDs lists the objects that need downloading, when the
	// caller asked for them.
	MissingObjectIDs []ObjectID `json:"missing_object_ids,omitempty"`

	// CoverageByDomain breaks coverage down per domain, when the caller
	// asked for it.
	CoverageByDomain map[string]DomainCoverage `json:"coverage_by_domain,omitempty"`
}

// DownloadStats summarizes a bulk download run.
// Downloaded + Failed always equals Total.
type DownloadStats struct {
	// RunID identifies this batch run in logs and metrics.
	RunID string `json:"run_id"`

	// Total is the number of objects the run considered.
	Total int `json:"total"`

	// Downloaded is the number fetched successfully during this run.
	Downloaded int `json:"downloaded"`

	// Cached is the number persisted to the cache. Equals Downloaded when
	// a cache is configured, 0 otherwise.
	Cached int `json:"cached"`

	// Failed is the number that exhausted their retries.
	Failed int `json:"failed"`

	// DurationSeconds is the wall-clock duration of the run.
	DurationSeconds float64 `json:"duration_seconds"`
}

// UpdateStats summarizes an incremental cache update run.
// Downloaded + AlreadyCached + Failed always equals Total.
type UpdateStats struct {
	// RunID identifies this batch run in logs and metrics.
	RunID string `json:"run_id"`

	// Total is the number of objects in the (filtered) catalog listing.
	Total int `json:"total"`

	// Downloaded is the number fetched during this run.
	Downloaded int `json:"downloaded"`

	// AlreadyCached is the number skipped because a detail record existed.
	AlreadyCached int `json:"already_cached"`

	// Failed is the number that exhausted their retries.
	Failed int `json:"failed"`

	// DurationSeconds is the wall-clock duration of the run.
	DurationSeconds float64 `json:"duration_seconds"`
}
