// Package fixtures provides test data and configuration fixtures.
package fixtures

import (
	"fmt"
	"path/filepath"
	"time"

	"fdk/internal/domain"
	"fdk/internal/storage"
)

// SummaryObject returns a catalog object without detail data, the shape
// a listing fetch produces.
func SummaryObject(id, name, dom string) *domain.CatalogObject {
	return &domain.CatalogObject{
		ID:     domain.ObjectID(id),
		Name:   name,
		Domain: dom,
	}
}

// DetailObject returns a catalog object with property sets,
// relationships, and classifications, the shape a detail fetch produces.
func DetailObject(id, name, dom string) *domain.CatalogObject {
	return &domain.CatalogObject{
		ID:              domain.ObjectID(id),
		Name:            name,
		Domain:          dom,
		Description:     "Integration test object " + id,
		Classifications: []string{"eBKP-H C01.02"},
		PropertySets: []domain.PropertySet{
			{
				ID:   id + "-ps-geometry",
				Name: "Geometry",
				Properties: []domain.Property{
					{ID: id + "-p-length", Name: "Length", Value: domain.NumberValue(42.5), Unit: "m"},
					{ID: id + "-p-material", Name: "Material", Value: domain.StringValue("steel")},
					{ID: id + "-p-load", Name: "Load bearing", Value: domain.BoolValue(true)},
				},
			},
			{
				ID:   id + "-ps-admin",
				Name: "Administration",
				Properties: []domain.Property{
					{ID: id + "-p-owner", Name: "Owner", Value: domain.StringValue("infrastructure")},
				},
			},
		},
		Relationships: map[string][]domain.ObjectID{
			"parent":     {"OBJ_PARENT"},
			"references": {"OBJ_REF_A", "OBJ_REF_B"},
		},
		Metadata: map[string]domain.Value{
			"revision": domain.StringValue("r3"),
		},
	}
}

// Catalog returns n objects spread over a few domains, alternating
// between summary and detail shapes. IDs are OBJ_0001 and up.
func Catalog(n int) []*domain.CatalogObject {
	domains := []string{"Bridges", "Tunnels", "Tracks"}
	objects := make([]*domain.CatalogObject, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("OBJ_%04d", i+1)
		name := fmt.Sprintf("Object %d", i+1)
		dom := domains[i%len(domains)]
		if i%2 == 0 {
			objects = append(objects, DetailObject(id, name, dom))
		} else {
			objects = append(objects, SummaryObject(id, name, dom))
		}
	}
	return objects
}

// Release returns a release snapshot with the given tag.
func Release(name string) domain.ReleaseInfo {
	return domain.ReleaseInfo{
		Name: name,
		Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

// SQLiteStorageConfig returns a storage config for a SQLite cache under
// dataDir.
func SQLiteStorageConfig(dataDir string) storage.Config {
	return storage.Config{
		Backend: storage.BackendSQLite,
		SQLite: storage.SQLiteConfig{
			Path: filepath.Join(dataDir, "catalog.db"),
		},
	}
}

// PostgresStorageConfig returns a storage config for a PostgreSQL cache.
func PostgresStorageConfig(dsn string) storage.Config {
	return storage.Config{
		Backend: storage.BackendPostgres,
		Postgres: storage.PostgresConfig{
			DSN:      dsn,
			MaxConns: 10,
		},
	}
}
