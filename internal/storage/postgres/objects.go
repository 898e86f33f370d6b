package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fdk/internal/domain"
	"fdk/internal/storage"

	"github.com/jackc/pgx/v5"
)

// Get retrieves a cached object by id.
func (s *Store) Get(ctx context.Context, id domain.ObjectID) (*domain.CatalogObject, error) {
	var payload []byte

	err := s.pool.QueryRow(ctx,
		"SELECT payload FROM objects WHERE id = $1",
		string(id),
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query object: %w", err)
	}

	var obj domain.CatalogObject
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	return &obj, nil
}

// Save stores an object, upserting by id. A summary record never
// replaces an existing detail record.
func (s *Store) Save(ctx context.Context, obj *domain.CatalogObject) error {
	if err := obj.Validate(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	payload, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to encode object %s: %w", obj.ID, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO objects (id, name, domain, has_details, payload, cached_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			domain = excluded.domain,
			has_details = excluded.has_details,
			payload = excluded.payload,
			cached_at = excluded.cached_at
		WHERE NOT (objects.has_details AND NOT excluded.has_details)
	`,
		string(obj.ID),
		obj.Name,
		obj.Domain,
		obj.IsDetail(),
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save object %s: %w", obj.ID, err)
	}

	return nil
}

// List retrieves cached objects matching the filter, ordered by name.
func (s *Store) List(ctx context.Context, filter storage.ListFilter) ([]*domain.CatalogObject, error) {
	query := `
		SELECT payload FROM objects WHERE 1=1
	`
	args := []any{}
	argNum := 1

	if filter.Domain != "" {
		query += fmt.Sprintf(" AND LOWER(domain) = $%d", argNum)
		args = append(args, strings.ToLower(filter.Domain))
		argNum++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argNum)
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	if filter.DetailOnly {
		query += " AND has_details"
	}

	query += " ORDER BY name"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
		argNum++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query objects: %w", err)
	}
	defer rows.Close()

	var objects []*domain.CatalogObject
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}

		var obj domain.CatalogObject
		if err := json.Unmarshal(payload, &obj); err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
		objects = append(objects, &obj)
	}

	return objects, rows.Err()
}

// Count returns the number of cached objects matching the filter,
// ignoring limit and offset.
func (s *Store) Count(ctx context.Context, filter storage.ListFilter) (int, error) {
	query := "SELECT COUNT(*) FROM objects WHERE 1=1"
	args := []any{}
	argNum := 1

	if filter.Domain != "" {
		query += fmt.Sprintf(" AND LOWER(domain) = $%d", argNum)
		args = append(args, strings.ToLower(filter.Domain))
		argNum++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argNum)
		args = append(args, "%"+filter.Search+"%")
	}

	if filter.DetailOnly {
		query += " AND has_details"
	}

	var count int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count objects: %w", err)
	}

	return count, nil
}

// Entries returns a lightweight view of every cached object, keyed by id.
func (s *Store) Entries(ctx context.Context) (map[domain.ObjectID]storage.Entry, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, domain, has_details FROM objects")
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[domain.ObjectID]storage.Entry)
	for rows.Next() {
		var id, objDomain string
		var hasDetails bool
		if err := rows.Scan(&id, &objDomain, &hasDetails); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries[domain.ObjectID(id)] = storage.Entry{
			HasDetail: hasDetails,
			Domain:    objDomain,
		}
	}

	return entries, rows.Err()
}

// Ensure interface compliance
var _ storage.Store = (*Store)(nil)
