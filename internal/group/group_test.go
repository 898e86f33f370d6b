package group

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"fdk/internal/catalog"
	"fdk/internal/domain"
	"fdk/internal/fetch"
	"fdk/internal/storage"
)

// fakeSource serves per-id detail objects; the listing is never used
// by the grouper.
type fakeSource struct {
	details map[domain.ObjectID]*domain.CatalogObject
}

func (s *fakeSource) FetchListing(ctx context.Context, language string) (*catalog.Listing, error) {
	return &catalog.Listing{}, nil
}

func (s *fakeSource) FetchObject(ctx context.Context, id domain.ObjectID, language string) (*domain.CatalogObject, error) {
	obj, ok := s.details[id]
	if !ok {
		return nil, &domain.NotFoundError{ObjectID: id}
	}
	return obj, nil
}

func (s *fakeSource) SupportedLanguages() []string {
	return []string{"de", "fr", "it", "en"}
}

// memStore covers Get and Save; the grouper reaches nothing else.
type memStore struct {
	storage.Store
	mu      sync.Mutex
	objects map[domain.ObjectID]*domain.CatalogObject
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[domain.ObjectID]*domain.CatalogObject)}
}

func (s *memStore) Get(ctx context.Context, id domain.ObjectID) (*domain.CatalogObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return obj, nil
}

func (s *memStore) Save(ctx context.Context, obj *domain.CatalogObject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[obj.ID] = obj
	return nil
}

func testObject(id domain.ObjectID, name, dom string, classes []string, psets ...string) *domain.CatalogObject {
	obj := &domain.CatalogObject{ID: id, Name: name, Domain: dom, Classifications: classes}
	for _, ps := range psets {
		obj.PropertySets = append(obj.PropertySets, domain.PropertySet{
			ID:         "ps-" + ps,
			Name:       ps,
			Properties: []domain.Property{{ID: "p-1", Name: "Width"}},
		})
	}
	return obj
}

// testCatalog is the four-object fixture: two bridges, one tunnel, one
// track.
func testCatalog() map[domain.ObjectID]*domain.CatalogObject {
	return map[domain.ObjectID]*domain.CatalogObject{
		"OBJ_BR_1":  testObject("OBJ_BR_1", "Stone Bridge", "Bridges", []string{"IfcBridge"}, "Dimensions", "Identity"),
		"OBJ_BR_2":  testObject("OBJ_BR_2", "Steel Bridge", "Bridges", []string{"IfcBridge"}, "Dimensions"),
		"OBJ_TUN_1": testObject("OBJ_TUN_1", "Base Tunnel", "Tunnels", []string{"IfcTunnel"}, "Dimensions"),
		"OBJ_TRK_1": testObject("OBJ_TRK_1", "Main Track", "Tracks", nil, "Alignment"),
	}
}

func allIDs() []domain.ObjectID {
	return []domain.ObjectID{"OBJ_BR_1", "OBJ_BR_2", "OBJ_TUN_1", "OBJ_TRK_1"}
}

func newTestGrouper(t *testing.T, details map[domain.ObjectID]*domain.CatalogObject, seed bool) (*Grouper, *memStore) {
	t.Helper()

	store := newMemStore()
	if seed {
		for _, obj := range details {
			if err := store.Save(context.Background(), obj); err != nil {
				t.Fatalf("seed failed: %v", err)
			}
		}
	}

	source := &fakeSource{details: details}
	fetcher := fetch.New(source, store, fetch.Config{
		MaxConcurrent: 4,
		MaxAttempts:   1,
		BaseDelay:     time.Millisecond,
	})
	return New(store, fetcher), store
}

func bucketIDs(t *testing.T, groups map[string]*Node, name string) []domain.ObjectID {
	t.Helper()
	node, ok := groups[name]
	if !ok {
		t.Fatalf("missing bucket %q", name)
	}
	if !node.IsLeaf() {
		t.Fatalf("bucket %q is not a leaf", name)
	}
	ids := make([]domain.ObjectID, 0, len(node.Objects))
	for _, obj := range node.Objects {
		ids = append(ids, obj.ID)
	}
	return ids
}

func TestGrouper_ByDomain(t *testing.T) {
	grouper, _ := newTestGrouper(t, testCatalog(), true)

	result, err := grouper.Group(context.Background(), Params{
		IDs:          allIDs(),
		GroupBy:      []Key{KeyDomain},
		IncludeCount: true,
	})
	if err != nil {
		t.Fatalf("group failed: %v", err)
	}

	if result.TotalObjects != 4 {
		t.Errorf("expected 4 objects, got %d", result.TotalObjects)
	}
	if len(result.Groups) != 3 {
		t.Fatalf("expected 3 buckets, got %v", result.Groups)
	}

	bridges := bucketIDs(t, result.Groups, "Bridges")
	if len(bridges) != 2 || bridges[0] != "OBJ_BR_1" || bridges[1] != "OBJ_BR_2" {
		t.Errorf("unexpected bridges bucket: %v", bridges)
	}
	if ids := bucketIDs(t, result.Groups, "Tunnels"); len(ids) != 1 || ids[0] != "OBJ_TUN_1" {
		t.Errorf("unexpected tunnels bucket: %v", ids)
	}
	if ids := bucketIDs(t, result.Groups, "Tracks"); len(ids) != 1 || ids[0] != "OBJ_TRK_1" {
		t.Errorf("unexpected tracks bucket: %v", ids)
	}

	want := map[string]int{"Bridges": 2, "Tunnels": 1, "Tracks": 1}
	for name, count := range want {
		if result.GroupCounts[name] != count {
			t.Errorf("expected count %d for %s, got %d", count, name, result.GroupCounts[name])
		}
	}
}

func TestGrouper_NoGroupingSorts(t *testing.T) {
	grouper, _ := newTestGrouper(t, testCatalog(), true)

	result, err := grouper.Group(context.Background(), Params{
		IDs:          allIDs(),
		SortBy:       SortName,
		Order:        OrderDesc,
		IncludeCount: true,
	})
	if err != nil {
		t.Fatalf("group failed: %v", err)
	}

	ids := bucketIDs(t, result.Groups, "all")
	want := []domain.ObjectID{"OBJ_BR_1", "OBJ_BR_2", "OBJ_TRK_1", "OBJ_TUN_1"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d objects, got %v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], ids[i])
		}
	}
	if result.GroupCounts["all"] != 4 {
		t.Errorf("unexpected counts: %v", result.GroupCounts)
	}
}

func TestGrouper_ByPropertySet(t *testing.T) {
	grouper, _ := newTestGrouper(t, testCatalog(), true)

	result, err := grouper.Group(context.Background(), Params{
		IDs:     allIDs(),
		GroupBy: []Key{KeyPropertySet},
	})
	if err != nil {
		t.Fatalf("group failed: %v", err)
	}

	if ids := bucketIDs(t, result.Groups, "Dimensions"); len(ids) != 3 {
		t.Errorf("expected 3 objects in Dimensions, got %v", ids)
	}
	if ids := bucketIDs(t, result.Groups, "Identity"); len(ids) != 1 || ids[0] != "OBJ_BR_1" {
		t.Errorf("unexpected Identity bucket: %v", ids)
	}
	if ids := bucketIDs(t, result.Groups, "Alignment"); len(ids) != 1 || ids[0] != "OBJ_TRK_1" {
		t.Errorf("unexpected Alignment bucket: %v", ids)
	}
}

func TestGrouper_ByClassification(t *testing.T) {
	grouper, _ := newTestGrouper(t, testCatalog(), true)

	result, err := grouper.Group(context.Background(), Params{
		IDs:     allIDs(),
		GroupBy: []Key{KeyClassification},
	})
	if err != nil {
		t.Fatalf("group failed: %v", err)
	}

	if ids := bucketIDs(t, result.Groups, "IfcBridge"); len(ids) != 2 {
		t.Errorf("unexpected IfcBridge bucket: %v", ids)
	}
	if ids := bucketIDs(t, result.Groups, NoClassification); len(ids) != 1 || ids[0] != "OBJ_TRK_1" {
		t.Errorf("unclassified objects must land in the fallback bucket: %v", ids)
	}
}

func TestGrouper_MultiLevel(t *testing.T) {
	grouper, _ := newTestGrouper(t, testCatalog(), true)

	result, err := grouper.Group(context.Background(), Params{
		IDs:          allIDs(),
		GroupBy:      []Key{KeyDomain, KeyClassification},
		IncludeCount: true,
	})
	if err != nil {
		t.Fatalf("group failed: %v", err)
	}

	bridges, ok := result.Groups["Bridges"]
	if !ok || bridges.IsLeaf() {
		t.Fatalf("expected nested Bridges bucket, got %+v", bridges)
	}
	if ids := bucketIDs(t, bridges.Children, "IfcBridge"); len(ids) != 2 {
		t.Errorf("unexpected nested bucket: %v", ids)
	}

	want := map[string]int{
		"Bridges/IfcBridge":           2,
		"Tunnels/IfcTunnel":           1,
		"Tracks/" + NoClassification: 1,
	}
	for path, count := range want {
		if result.GroupCounts[path] != count {
			t.Errorf("expected count %d at %s, got %d", count, path, result.GroupCounts[path])
		}
	}
}

func TestGrouper_SortWithinGroups(t *testing.T) {
	grouper, _ := newTestGrouper(t, testCatalog(), true)

	result, err := grouper.Group(context.Background(), Params{
		IDs:     allIDs(),
		GroupBy: []Key{KeyDomain},
		SortBy:  SortName,
	})
	if err != nil {
		t.Fatalf("group failed: %v", err)
	}

	bridges := bucketIDs(t, result.Groups, "Bridges")
	if bridges[0] != "OBJ_BR_2" || bridges[1] != "OBJ_BR_1" {
		t.Errorf("expected Steel Bridge before Stone Bridge, got %v", bridges)
	}
}

func TestGrouper_ResolvesMissingFromSource(t *testing.T) {
	details := testCatalog()
	grouper, store := newTestGrouper(t, details, false)

	if err := store.Save(context.Background(), details["OBJ_BR_1"]); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	ids := append(allIDs(), "OBJ_GONE_1")
	result, err := grouper.Group(context.Background(), Params{
		IDs:     ids,
		GroupBy: []Key{KeyDomain},
	})
	if err != nil {
		t.Fatalf("group failed: %v", err)
	}

	if result.TotalObjects != 4 {
		t.Errorf("unresolvable ids must be dropped, got %d objects", result.TotalObjects)
	}
	if _, err := store.Get(context.Background(), "OBJ_TUN_1"); err != nil {
		t.Errorf("fetched objects must be cached: %v", err)
	}
}

func TestGrouper_InvalidParams(t *testing.T) {
	grouper, _ := newTestGrouper(t, testCatalog(), true)

	_, err := grouper.Group(context.Background(), Params{IDs: allIDs(), GroupBy: []Key{"color"}})
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}

	_, err = grouper.Group(context.Background(), Params{IDs: allIDs(), SortBy: SortKey("size")})
	if !errors.Is(err, ErrUnknownSortKey) {
		t.Errorf("expected ErrUnknownSortKey, got %v", err)
	}

	_, err = grouper.Group(context.Background(), Params{IDs: allIDs(), Order: Order("sideways")})
	if !errors.Is(err, ErrUnknownOrder) {
		t.Errorf("expected ErrUnknownOrder, got %v", err)
	}
}

func TestNode_MarshalJSON(t *testing.T) {
	leaf := &Node{Objects: []*domain.CatalogObject{{ID: "obj-1", Name: "Signal", Domain: "Signalling"}}}
	nested := &Node{Children: map[string]*Node{"Signalling": leaf}}

	data, err := json.Marshal(nested)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string][]map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("nested node must decode as a bucket map: %v", err)
	}
	if len(decoded["Signalling"]) != 1 || decoded["Signalling"][0]["id"] != "obj-1" {
		t.Errorf("unexpected shape: %s", data)
	}

	empty, err := json.Marshal(&Node{})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(empty) != "[]" {
		t.Errorf("empty leaf must marshal as [], got %s", empty)
	}
}
