// Package service wires the catalog source, the object cache, and the
// engines into the operations exposed to consumers. Every read prefers
// cached data and degrades to the live listing; every write goes
// through the bounded fetcher.
package service

import (
	"context"
	"errors"
	"strings"

	"fdk/internal/catalog"
	"fdk/internal/coverage"
	"fdk/internal/domain"
	"fdk/internal/fetch"
	"fdk/internal/group"
	"fdk/internal/search"
	"fdk/internal/storage"
)

// DefaultLanguage is used when a request does not name one.
const DefaultLanguage = "en"

// ErrNoCache reports an operation that requires a configured cache.
var ErrNoCache = errors.New("no cache configured")

// Service is the facade over the catalog engine.
type Service struct {
	source  catalog.Source
	store   storage.Store
	fetcher *fetch.Fetcher

	searcher *search.Engine
	grouper  *group.Grouper

	searchConcurrency int
	secondsPerObject  float64
}

// Option configures a Service.
type Option func(*Service)

// WithSearchConcurrency overrides the detail prefetch concurrency used
// by search upgrades and group resolution.
func WithSearchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.searchConcurrency = n
		}
	}
}

// WithEstimateSecondsPerObject overrides the coverage download-time
// heuristic.
func WithEstimateSecondsPerObject(seconds float64) Option {
	return func(s *Service) {
		if seconds > 0 {
			s.secondsPerObject = seconds
		}
	}
}

// New creates a Service. store may be nil; cache-dependent operations
// then degrade per operation rather than failing construction.
func New(source catalog.Source, store storage.Store, fetcher *fetch.Fetcher, opts ...Option) *Service {
	s := &Service{
		source:            source,
		store:             store,
		fetcher:           fetcher,
		searchConcurrency: search.DefaultUpgradeConcurrency,
		secondsPerObject:  coverage.DefaultSecondsPerObject,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.searcher = search.New(source, store, fetcher, search.WithUpgradeConcurrency(s.searchConcurrency))
	s.grouper = group.New(store, fetcher, group.WithResolveConcurrency(s.searchConcurrency))

	return s
}

// CacheStats reports the cache's state. Freshness is judged against the
// live release when the source is reachable; otherwise the cache counts
// as stale.
func (s *Service) CacheStats(ctx context.Context, language string) (domain.CacheStats, error) {
	if s.store == nil {
		return domain.CacheStats{}, ErrNoCache
	}

	var current domain.ReleaseInfo
	if listing, err := s.source.FetchListing(ctx, normalizeLanguage(language)); err == nil {
		current = listing.Release
	} else {
		log.Warn("release probe failed", "error", err)
	}

	return s.store.Stats(ctx, current)
}

// ClearCache removes every cached object and the cache metadata.
func (s *Service) ClearCache(ctx context.Context) error {
	if s.store == nil {
		return ErrNoCache
	}
	log.Info("clearing cache")
	return s.store.Clear(ctx)
}

// ensureFresh fetches the live listing and refreshes cached summaries
// when the release moved on. The refresh never downgrades cached
// details and is best effort; only the listing fetch itself can fail.
func (s *Service) ensureFresh(ctx context.Context, language string) (*catalog.Listing, error) {
	listing, err := s.source.FetchListing(ctx, language)
	if err != nil {
		return nil, err
	}

	if s.store != nil && !s.store.IsFresh(ctx, listing.Release) {
		log.Info("refreshing cached summaries",
			"release", listing.Release.Name,
			"objects", len(listing.Objects),
		)
		for _, obj := range listing.Objects {
			if saveErr := s.store.Save(ctx, obj); saveErr != nil {
				log.Warn("summary refresh failed", "object_id", obj.ID, "error", saveErr)
			}
		}
		if metaErr := s.store.UpdateMetadata(ctx, listing.TotalCount, listing.Release); metaErr != nil {
			log.Warn("metadata update failed", "error", metaErr)
		}
	}

	return listing, nil
}

// allObjects returns every known object, cache-first with the live
// listing as fallback.
func (s *Service) allObjects(ctx context.Context, language string) ([]*domain.CatalogObject, error) {
	if s.store != nil {
		objects, err := s.store.List(ctx, storage.ListFilter{})
		if err != nil {
			log.Warn("cache list failed", "error", err)
		} else if len(objects) > 0 {
			return objects, nil
		}
	}

	listing, err := s.source.FetchListing(ctx, language)
	if err != nil {
		return nil, err
	}
	return listing.Objects, nil
}

func normalizeLanguage(language string) string {
	if language == "" {
		return DefaultLanguage
	}
	return language
}

func filterByDomain(objects []*domain.CatalogObject, domainFilter string) []*domain.CatalogObject {
	want := strings.ToLower(domainFilter)
	out := make([]*domain.CatalogObject, 0, len(objects))
	for _, obj := range objects {
		if strings.ToLower(obj.Domain) == want {
			out = append(out, obj)
		}
	}
	return out
}

func objectIDs(objects []*domain.CatalogObject) []domain.ObjectID {
	ids := make([]domain.ObjectID, 0, len(objects))
	for _, obj := range objects {
		ids = append(ids, obj.ID)
	}
	return ids
}
