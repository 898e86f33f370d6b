package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fdk/internal/domain"
	"fdk/internal/storage"
)

// Get retrieves a cached object by id.
func (s *Store) Get(ctx context.Context, id domain.ObjectID) (*domain.CatalogObject, error) {
	var payload []byte
	var compression string

	err := s.db.QueryRowContext(ctx, `
		SELECT payload, compression FROM objects WHERE id = ?
	`, string(id)).Scan(&payload, &compression)
	if err != nil {
		return nil, wrapNotFound(err)
	}

	return decodeObject(payload, compression)
}

// Save stores an object, upserting by id. A summary record never
// replaces an existing detail record.
func (s *Store) Save(ctx context.Context, obj *domain.CatalogObject) error {
	if err := obj.Validate(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	payload, err := encodeObject(obj, s.cfg.Compression, s.cfg.CompressionLevel)
	if err != nil {
		return fmt.Errorf("failed to encode object %s: %w", obj.ID, err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO objects (id, name, domain, has_details, payload, compression, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			domain = excluded.domain,
			has_details = excluded.has_details,
			payload = excluded.payload,
			compression = excluded.compression,
			cached_at = excluded.cached_at
		WHERE NOT (objects.has_details = 1 AND excluded.has_details = 0)
	`,
		string(obj.ID),
		obj.Name,
		obj.Domain,
		boolToInt(obj.IsDetail()),
		payload,
		s.cfg.Compression,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save object %s: %w", obj.ID, err)
	}

	return nil
}

// List retrieves cached objects matching the filter, ordered by name.
func (s *Store) List(ctx context.Context, filter storage.ListFilter) ([]*domain.CatalogObject, error) {
	query := `
		SELECT payload, compression FROM objects WHERE 1=1
	`
	args := []any{}

	if filter.Domain != "" {
		query += " AND LOWER(domain) = ?"
		args = append(args, strings.ToLower(filter.Domain))
	}

	if filter.Search != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}

	if filter.DetailOnly {
		query += " AND has_details = 1"
	}

	query += " ORDER BY name"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query objects: %w", err)
	}
	defer rows.Close()

	var objects []*domain.CatalogObject
	for rows.Next() {
		var payload []byte
		var compression string
		if err := rows.Scan(&payload, &compression); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}

		obj, err := decodeObject(payload, compression)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	return objects, rows.Err()
}

// Count returns the number of cached objects matching the filter,
// ignoring limit and offset.
func (s *Store) Count(ctx context.Context, filter storage.ListFilter) (int, error) {
	query := "SELECT COUNT(*) FROM objects WHERE 1=1"
	args := []any{}

	if filter.Domain != "" {
		query += " AND LOWER(domain) = ?"
		args = append(args, strings.ToLower(filter.Domain))
	}

	if filter.Search != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}

	if filter.DetailOnly {
		query += " AND has_details = 1"
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count objects: %w", err)
	}

	return count, nil
}

// Entries returns a lightweight view of every cached object, keyed by id.
func (s *Store) Entries(ctx context.Context) (map[domain.ObjectID]storage.Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, domain, has_details FROM objects")
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[domain.ObjectID]storage.Entry)
	for rows.Next() {
		var id, objDomain string
		var hasDetails int
		if err := rows.Scan(&id, &objDomain, &hasDetails); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries[domain.ObjectID(id)] = storage.Entry{
			HasDetail: hasDetails != 0,
			Domain:    objDomain,
		}
	}

	return entries, rows.Err()
}

// encodeObject serializes an object for the payload column.
func encodeObject(obj *domain.CatalogObject, compression string, level int) ([]byte, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return compressPayload(data, compression, level)
}

// decodeObject deserializes an object from the payload column.
func decodeObject(payload []byte, compression string) (*domain.CatalogObject, error) {
	data, err := decompressPayload(payload, compression)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress payload: %w", err)
	}

	var obj domain.CatalogObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	return &obj, nil
}

// wrapNotFound wraps sql.ErrNoRows as storage.ErrNotFound.
func wrapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure interface compliance
var _ storage.Store = (*Store)(nil)
