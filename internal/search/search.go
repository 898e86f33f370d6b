// Package search implements field-scoped matching across catalog
// objects. Queries walk nested property structures recursively and
// summary objects are upgraded to details in one bounded batch before
// matching when the requested fields need them.
package search

import (
	"context"
	"strings"

	"fdk/internal/catalog"
	"fdk/internal/domain"
	"fdk/internal/fetch"
	"fdk/internal/storage"
)

// DefaultUpgradeConcurrency caps the detail prefetch batch that runs
// before matching.
const DefaultUpgradeConcurrency = 20

// Params describes one search request.
type Params struct {
	// Query is the text to find.
	Query string

	// Fields lists the fields to search. Empty means FieldAll.
	Fields []string

	// Domain restricts candidates to one domain, case-insensitively.
	Domain string

	// Mode is the comparison strategy. Empty means ModeContains.
	Mode Mode

	// CaseSensitive disables the default lower-casing of both sides.
	CaseSensitive bool

	// Language selects the catalog language for fetches.
	Language string

	// Limit truncates the returned matches. Zero means no limit; the
	// total is counted before truncation either way.
	Limit int
}

// Match is one located occurrence of the query.
type Match struct {
	// ObjectID identifies the object containing the match.
	ObjectID domain.ObjectID `json:"object_id"`

	// ObjectName is the containing object's name.
	ObjectName string `json:"object_name"`

	// Domain is the containing object's domain.
	Domain string `json:"domain"`

	// Field is the searched field the match was found in.
	Field string `json:"field"`

	// Path locates the matched value inside the field, with map keys
	// appended as ".key" and list elements as "[i]".
	Path string `json:"match_path"`

	// Value is the matched text.
	Value string `json:"matched_value"`

	// PropertySetName names the owning property set for matches inside
	// property sets.
	PropertySetName string `json:"property_set_name,omitempty"`
}

// Result is a completed search.
type Result struct {
	// Matches holds up to Limit matches.
	Matches []Match `json:"matches"`

	// TotalMatches counts every match found, before truncation.
	TotalMatches int `json:"total_matches"`
}

// Engine resolves candidate objects from the cache (or the live
// listing), upgrades summaries where the requested fields need detail
// data, and runs the recursive matcher.
type Engine struct {
	source      catalog.Source
	store       storage.Store
	fetcher     *fetch.Fetcher
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithUpgradeConcurrency overrides the detail prefetch concurrency.
func WithUpgradeConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// New creates an Engine. store may be nil; candidates then come from
// the live listing on every search.
func New(source catalog.Source, store storage.Store, fetcher *fetch.Fetcher, opts ...Option) *Engine {
	e := &Engine{
		source:      source,
		store:       store,
		fetcher:     fetcher,
		concurrency: DefaultUpgradeConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs one query and returns the matches plus the total count
// before any limit truncation.
func (e *Engine) Search(ctx context.Context, params Params) (Result, error) {
	fields, err := normalizeFields(params.Fields)
	if err != nil {
		return Result{}, err
	}
	mode, err := ParseMode(string(params.Mode))
	if err != nil {
		return Result{}, err
	}

	objects, err := e.candidates(ctx, params.Language)
	if err != nil {
		return Result{}, err
	}

	if params.Domain != "" {
		objects = filterByDomain(objects, params.Domain)
	}

	objects = e.upgradeDetails(ctx, objects, fields, params.Language)

	var matches []Match
	for _, obj := range objects {
		for _, field := range resolveFields(fields) {
			matches = append(matches, searchField(obj, field, params.Query, mode, params.CaseSensitive)...)
		}
	}

	total := len(matches)
	if params.Limit > 0 && len(matches) > params.Limit {
		matches = matches[:params.Limit]
	}

	log.Debug("search finished",
		"query", params.Query,
		"fields", fields,
		"objects", len(objects),
		"total_matches", total,
	)

	return Result{Matches: matches, TotalMatches: total}, nil
}

// candidates returns the objects to search. The live listing refreshes
// the cached summaries when the release moved on; a cached set is
// served even when the source is unreachable.
func (e *Engine) candidates(ctx context.Context, language string) ([]*domain.CatalogObject, error) {
	listing, listErr := e.source.FetchListing(ctx, language)
	if listErr == nil && e.store != nil {
		e.refreshSummaries(ctx, listing)
	}

	if e.store != nil {
		objects, err := e.store.List(ctx, storage.ListFilter{})
		if err != nil {
			log.Warn("cache listing failed", "error", err)
		} else if len(objects) > 0 {
			return objects, nil
		}
	}

	if listErr != nil {
		return nil, listErr
	}
	return listing.Objects, nil
}

// refreshSummaries writes the listing's summaries through the guarded
// upsert when the stored release is stale. Best effort; a failed
// refresh only degrades freshness.
func (e *Engine) refreshSummaries(ctx context.Context, listing *catalog.Listing) {
	if e.store.IsFresh(ctx, listing.Release) {
		return
	}

	for _, obj := range listing.Objects {
		if err := e.store.Save(ctx, obj); err != nil {
			log.Warn("summary refresh failed", "object_id", obj.ID, "error", err)
		}
	}
	if err := e.store.UpdateMetadata(ctx, listing.TotalCount, listing.Release); err != nil {
		log.Warn("metadata update failed", "error", err)
	}
}

// upgradeDetails replaces summary objects with fetched details in one
// bounded batch. Items whose fetch fails keep their summary.
func (e *Engine) upgradeDetails(ctx context.Context, objects []*domain.CatalogObject, fields []string, language string) []*domain.CatalogObject {
	if !requiresDetail(fields) {
		return objects
	}

	var ids []domain.ObjectID
	var indices []int
	for i, obj := range objects {
		if !obj.IsDetail() {
			ids = append(ids, obj.ID)
			indices = append(indices, i)
		}
	}
	if len(ids) == 0 {
		return objects
	}

	batch := e.fetcher.FetchAll(ctx, ids, language, e.concurrency)

	out := make([]*domain.CatalogObject, len(objects))
	copy(out, objects)
	for i, r := range batch.Results {
		if !r.Failed() {
			out[indices[i]] = r.Object
		}
	}
	return out
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

// searchField dispatches one field of one object. Property sets and
// properties have dedicated walks so matches can carry the owning
// property set's name.
func searchField(obj *domain.CatalogObject, field, query string, mode Mode, caseSensitive bool) []Match {
	switch field {
	case "properties":
		return searchProperties(obj, query, mode, caseSensitive)
	case "propertySets":
		return searchPropertySets(obj, query, mode, caseSensitive)
	}

	value, ok := fieldValue(obj, field)
	if !ok {
		return nil
	}

	var matches []Match
	value.Walk(field, func(path string, v domain.Value) {
		s, isString := v.AsString()
		if !isString || !mode.Matches(s, query, caseSensitive) {
			return
		}
		matches = append(matches, Match{
			ObjectID:   obj.ID,
			ObjectName: obj.Name,
			Domain:     obj.Domain,
			Field:      field,
			Path:       path,
			Value:      s,
		})
	})
	return matches
}

func searchPropertySets(obj *domain.CatalogObject, query string, mode Mode, caseSensitive bool) []Match {
	var matches []Match
	for _, pset := range obj.PropertySets {
		if !mode.Matches(pset.Name, query, caseSensitive) {
			continue
		}
		matches = append(matches, Match{
			ObjectID:        obj.ID,
			ObjectName:      obj.Name,
			Domain:          obj.Domain,
			Field:           "propertySets",
			Path:            pset.Name,
			Value:           pset.Name,
			PropertySetName: pset.Name,
		})
	}
	return matches
}

// searchProperties matches property names and string property values.
// A property whose name and value both match yields two matches at the
// same path.
func searchProperties(obj *domain.CatalogObject, query string, mode Mode, caseSensitive bool) []Match {
	var matches []Match
	for _, pset := range obj.PropertySets {
		for _, prop := range pset.Properties {
			path := pset.Name + "." + prop.Name

			if mode.Matches(prop.Name, query, caseSensitive) {
				matches = append(matches, Match{
					ObjectID:        obj.ID,
					ObjectName:      obj.Name,
					Domain:          obj.Domain,
					Field:           "properties",
					Path:            path,
					Value:           prop.Name,
					PropertySetName: pset.Name,
				})
			}

			if s, ok := prop.Value.AsString(); ok && mode.Matches(s, query, caseSensitive) {
				matches = append(matches, Match{
					ObjectID:        obj.ID,
					ObjectName:      obj.Name,
					Domain:          obj.Domain,
					Field:           "properties",
					Path:            path,
					Value:           s,
					PropertySetName: pset.Name,
				})
			}
		}
	}
	return matches
}
