package storage

import "errors"

// Storage errors
var (
	// ErrNotFound is returned when an object is not in the cache.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for invalid input parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnectionFailed is returned when the database connection fails.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrMigrationFailed is returned when migrations fail.
	ErrMigrationFailed = errors.New("migration failed")

	// ErrUnsupportedBackend is returned for an unknown backend type.
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
)

// IsNotFound checks if the error is a cache miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
