// Package group partitions catalog objects into single- or multi-level
// buckets keyed by derived attributes, with optional in-bucket sorting
// and flat per-bucket counts.
package group

import (
	"context"
	"encoding/json"
	"sort"

	"fdk/internal/domain"
	"fdk/internal/fetch"
	"fdk/internal/storage"
)

// DefaultResolveConcurrency caps the fetch batch for ids missing from
// the cache.
const DefaultResolveConcurrency = 20

// Params describes one grouping request.
type Params struct {
	// IDs lists the objects to organize.
	IDs []domain.ObjectID

	// GroupBy holds the bucket keys, outermost first. Empty means one
	// implicit "all" bucket.
	GroupBy []Key

	// SortBy orders objects inside leaf buckets. Empty means input
	// order.
	SortBy SortKey

	// Order is the sort direction. Empty means ascending.
	Order Order

	// IncludeCount adds the flat path-to-count map to the result.
	IncludeCount bool

	// Language selects the catalog language for fetches.
	Language string
}

// Node is one bucket. Leaves hold objects, inner nodes hold the next
// grouping level.
type Node struct {
	// Objects holds the bucket members on leaf nodes.
	Objects []*domain.CatalogObject

	// Children holds nested buckets, nil on leaf nodes.
	Children map[string]*Node
}

// IsLeaf reports whether this node holds objects rather than nested
// buckets.
func (n *Node) IsLeaf() bool {
	return n.Children == nil
}

// MarshalJSON renders leaves as object arrays and inner nodes as
// nested bucket maps, so a result serializes to the same shape
// regardless of grouping depth.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Children != nil {
		return json.Marshal(n.Children)
	}
	if n.Objects == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(n.Objects)
}

// Result is a completed grouping.
type Result struct {
	// Groups maps top-level bucket names to their content.
	Groups map[string]*Node `json:"groups"`

	// TotalObjects counts the resolved objects. Ids that could not be
	// resolved are not counted.
	TotalObjects int `json:"total_objects"`

	// GroupCounts maps "/"-joined bucket paths to leaf sizes when
	// requested.
	GroupCounts map[string]int `json:"group_counts,omitempty"`
}

// Grouper resolves object ids cache-first and organizes the resolved
// objects into buckets.
type Grouper struct {
	store       storage.Store
	fetcher     *fetch.Fetcher
	concurrency int
}

// Option configures a Grouper.
type Option func(*Grouper)

// WithResolveConcurrency overrides the fetch concurrency for ids
// missing from the cache.
func WithResolveConcurrency(n int) Option {
	return func(g *Grouper) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// New creates a Grouper. store may be nil, in which case every id is
// fetched.
func New(store storage.Store, fetcher *fetch.Fetcher, opts ...Option) *Grouper {
	g := &Grouper{
		store:       store,
		fetcher:     fetcher,
		concurrency: DefaultResolveConcurrency,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Group resolves the requested ids and buckets them. Unresolvable ids
// are dropped from the result; they reduce TotalObjects rather than
// failing the call.
func (g *Grouper) Group(ctx context.Context, params Params) (Result, error) {
	if err := validate(params); err != nil {
		return Result{}, err
	}

	objects := g.resolve(ctx, params.IDs, params.Language)

	order := params.Order
	if order == "" {
		order = OrderAsc
	}

	if len(params.GroupBy) == 0 {
		if params.SortBy != "" {
			sortObjects(objects, params.SortBy, order)
		}
		result := Result{
			Groups:       map[string]*Node{"all": {Objects: objects}},
			TotalObjects: len(objects),
		}
		if params.IncludeCount {
			result.GroupCounts = map[string]int{"all": len(objects)}
		}
		return result, nil
	}

	groups := groupByKeys(objects, params.GroupBy)

	if params.SortBy != "" {
		sortGroups(groups, params.SortBy, order)
	}

	result := Result{
		Groups:       groups,
		TotalObjects: len(objects),
	}
	if params.IncludeCount {
		result.GroupCounts = flatCounts(groups)
	}
	return result, nil
}

func validate(params Params) error {
	for _, key := range params.GroupBy {
		if _, err := ParseKey(string(key)); err != nil {
			return err
		}
	}
	if _, err := ParseSortKey(string(params.SortBy)); err != nil {
		return err
	}
	if _, err := ParseOrder(string(params.Order)); err != nil {
		return err
	}
	return nil
}

// resolve returns the objects for the given ids, cache-first. Missing
// ids are fetched in one bounded batch and cached; failed ids are
// dropped.
func (g *Grouper) resolve(ctx context.Context, ids []domain.ObjectID, language string) []*domain.CatalogObject {
	objects := make([]*domain.CatalogObject, 0, len(ids))
	var missing []domain.ObjectID

	if g.store == nil {
		missing = ids
	} else {
		for _, id := range ids {
			obj, err := g.store.Get(ctx, id)
			if err == nil {
				objects = append(objects, obj)
				continue
			}
			if !storage.IsNotFound(err) {
				log.Warn("cache read failed", "object_id", id, "error", err)
			}
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		batch := g.fetcher.FetchAll(ctx, missing, language, g.concurrency)
		for _, r := range batch.Results {
			if !r.Failed() {
				objects = append(objects, r.Object)
			}
		}
	}

	return objects
}

// groupByKeys buckets recursively; depth equals the number of keys.
func groupByKeys(objects []*domain.CatalogObject, keys []Key) map[string]*Node {
	first := groupBySingle(objects, keys[0])
	if len(keys) == 1 {
		return first
	}

	out := make(map[string]*Node, len(first))
	for name, node := range first {
		out[name] = &Node{Children: groupByKeys(node.Objects, keys[1:])}
	}
	return out
}

// groupBySingle buckets by one key. Property-set grouping places an
// object in every set bucket it belongs to; other keys place it in
// exactly one, skipping objects without a value.
func groupBySingle(objects []*domain.CatalogObject, key Key) map[string]*Node {
	groups := make(map[string]*Node)
	add := func(name string, obj *domain.CatalogObject) {
		node, ok := groups[name]
		if !ok {
			node = &Node{}
			groups[name] = node
		}
		node.Objects = append(node.Objects, obj)
	}

	for _, obj := range objects {
		if key == KeyPropertySet {
			for _, pset := range obj.PropertySets {
				add(pset.Name, obj)
			}
			continue
		}
		if name, ok := keyValue(obj, key); ok {
			add(name, obj)
		}
	}
	return groups
}

func sortGroups(groups map[string]*Node, sortBy SortKey, order Order) {
	for _, node := range groups {
		if node.Children != nil {
			sortGroups(node.Children, sortBy, order)
			continue
		}
		sortObjects(node.Objects, sortBy, order)
	}
}

func sortObjects(objects []*domain.CatalogObject, sortBy SortKey, order Order) {
	sort.SliceStable(objects, func(i, j int) bool {
		a := sortValue(objects[i], sortBy)
		b := sortValue(objects[j], sortBy)
		if order == OrderDesc {
			return a > b
		}
		return a < b
	})
}

// flatCounts walks to the leaves and records their sizes under
// "/"-joined paths.
func flatCounts(groups map[string]*Node) map[string]int {
	counts := make(map[string]int)

	var walk func(prefix string, node *Node)
	walk = func(prefix string, node *Node) {
		if node.Children == nil {
			counts[prefix] = len(node.Objects)
			return
		}
		for name, child := range node.Children {
			walk(prefix+"/"+name, child)
		}
	}

	for name, node := range groups {
		walk(name, node)
	}
	return counts
}
