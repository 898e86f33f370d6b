package service

import (
	"context"
	"strings"

	"fdk/internal/domain"
	"fdk/internal/group"
	"fdk/internal/search"
	"fdk/internal/storage"
)

// ListParams filters and paginates a catalog listing.
type ListParams struct {
	// Domain keeps only objects from one domain, case-insensitive
	// exact match. Empty means all domains.
	Domain string
	// Query keeps only objects whose name contains it,
	// case-insensitive. Empty means no name filter.
	Query string
	// Language selects the catalog language.
	Language string
	// Limit caps the returned page, 0 means no cap.
	Limit int
	// Offset skips that many objects before the page starts.
	Offset int
}

// ListResult is one page of a listing. Total counts all matches
// before pagination.
type ListResult struct {
	Objects []*domain.CatalogObject `json:"objects"`
	Total   int                     `json:"total"`
}

// GetResult carries one object and where it came from.
type GetResult struct {
	Object    *domain.CatalogObject `json:"object"`
	FromCache bool                  `json:"from_cache"`
}

// DomainStats summarizes the catalog's domains.
type DomainStats struct {
	// Domains maps domain name to object count. Objects without a
	// domain land under "Unknown".
	Domains      map[string]int `json:"domains"`
	TotalDomains int            `json:"total_domains"`
	TotalObjects int            `json:"total_objects"`
}

// PropertyQuery searches property names across cached details.
type PropertyQuery struct {
	Query    string
	Language string
	// Limit caps the returned matches, 0 means no cap.
	Limit int
}

// PropertyMatch is one property whose name matched the query.
type PropertyMatch struct {
	Property        domain.Property `json:"property"`
	ObjectID        domain.ObjectID `json:"object_id"`
	ObjectName      string          `json:"object_name"`
	PropertySetName string          `json:"property_set_name"`
}

// PropertySearchResult lists matched properties. TotalMatches counts
// all matches before the limit.
type PropertySearchResult struct {
	Matches      []PropertyMatch `json:"matches"`
	TotalMatches int             `json:"total_matches"`
}

// ListObjects returns one page of the catalog. The live listing is
// fetched first so the cache reflects the current release; a populated
// cache then serves the page so domain and name filters run in SQL.
// When the source is unreachable the cache alone serves the page.
func (s *Service) ListObjects(ctx context.Context, params ListParams) (ListResult, error) {
	language := normalizeLanguage(params.Language)
	listing, listErr := s.ensureFresh(ctx, language)
	if listErr != nil {
		log.Warn("listing fetch failed, serving from cache", "error", listErr)
	}

	if s.store != nil {
		if n, err := s.store.Count(ctx, storage.ListFilter{}); err == nil && n > 0 {
			return s.listFromStore(ctx, params)
		}
	}

	if listErr != nil {
		return ListResult{}, listErr
	}

	objects := listing.Objects
	if params.Domain != "" {
		objects = filterByDomain(objects, params.Domain)
	}
	if params.Query != "" {
		objects = filterByName(objects, params.Query)
	}

	total := len(objects)
	return ListResult{Objects: paginate(objects, params.Limit, params.Offset), Total: total}, nil
}

func (s *Service) listFromStore(ctx context.Context, params ListParams) (ListResult, error) {
	filter := storage.ListFilter{
		Domain: params.Domain,
		Search: params.Query,
		Limit:  params.Limit,
		Offset: params.Offset,
	}

	objects, err := s.store.List(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{Objects: objects, Total: total}, nil
}

// GetObject returns one object with full details where possible. A
// cached detail serves directly. Otherwise the object is fetched and
// cached; if the fetch fails but any cached copy exists, that copy is
// returned instead of the error.
func (s *Service) GetObject(ctx context.Context, id domain.ObjectID, language string) (GetResult, error) {
	if id == "" {
		return GetResult{}, domain.ErrInvalidObjectID
	}

	if s.store != nil {
		cached, err := s.store.Get(ctx, id)
		if err == nil && cached.IsDetail() {
			return GetResult{Object: cached, FromCache: true}, nil
		}
		if err != nil && !storage.IsNotFound(err) {
			log.Warn("cache read failed", "object_id", id, "error", err)
		}
	}

	obj, err := s.fetcher.FetchOne(ctx, id, normalizeLanguage(language))
	if err == nil {
		return GetResult{Object: obj, FromCache: false}, nil
	}

	if s.store != nil {
		if cached, cacheErr := s.store.Get(ctx, id); cacheErr == nil {
			log.Warn("fetch failed, serving cached copy", "object_id", id, "error", err)
			return GetResult{Object: cached, FromCache: true}, nil
		}
	}

	return GetResult{}, err
}

// AdvancedSearch runs a field-scoped search across the catalog.
func (s *Service) AdvancedSearch(ctx context.Context, params search.Params) (search.Result, error) {
	params.Language = normalizeLanguage(params.Language)
	return s.searcher.Search(ctx, params)
}

// GroupObjects organizes objects into nested groups.
func (s *Service) GroupObjects(ctx context.Context, params group.Params) (group.Result, error) {
	params.Language = normalizeLanguage(params.Language)
	return s.grouper.Group(ctx, params)
}

// ListDomains counts objects per domain, cache-first.
func (s *Service) ListDomains(ctx context.Context, language string) (DomainStats, error) {
	objects, err := s.allObjects(ctx, normalizeLanguage(language))
	if err != nil {
		return DomainStats{}, err
	}

	counts := make(map[string]int)
	for _, obj := range objects {
		name := obj.Domain
		if name == "" {
			name = "Unknown"
		}
		counts[name]++
	}

	return DomainStats{
		Domains:      counts,
		TotalDomains: len(counts),
		TotalObjects: len(objects),
	}, nil
}

// SearchProperties finds properties by name across every cached detail
// object. Summary-only objects carry no properties and are skipped.
func (s *Service) SearchProperties(ctx context.Context, params PropertyQuery) (PropertySearchResult, error) {
	objects, err := s.allObjects(ctx, normalizeLanguage(params.Language))
	if err != nil {
		return PropertySearchResult{}, err
	}

	query := strings.ToLower(params.Query)
	var matches []PropertyMatch
	for _, obj := range objects {
		if !obj.IsDetail() {
			continue
		}
		for _, pset := range obj.PropertySets {
			for _, prop := range pset.Properties {
				if !strings.Contains(strings.ToLower(prop.Name), query) {
					continue
				}
				matches = append(matches, PropertyMatch{
					Property:        prop,
					ObjectID:        obj.ID,
					ObjectName:      obj.Name,
					PropertySetName: pset.Name,
				})
			}
		}
	}

	total := len(matches)
	if params.Limit > 0 && len(matches) > params.Limit {
		matches = matches[:params.Limit]
	}

	return PropertySearchResult{Matches: matches, TotalMatches: total}, nil
}

func filterByName(objects []*domain.CatalogObject, query string) []*domain.CatalogObject {
	want := strings.ToLower(query)
	out := make([]*domain.CatalogObject, 0, len(objects))
	for _, obj := range objects {
		if strings.Contains(strings.ToLower(obj.Name), want) {
			out = append(out, obj)
		}
	}
	return out
}

func paginate(objects []*domain.CatalogObject, limit, offset int) []*domain.CatalogObject {
	if offset >= len(objects) {
		return nil
	}
	page := objects[offset:]
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	return page
}
