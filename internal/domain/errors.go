package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidObjectID   = errors.New("invalid object ID")
	ErrInvalidObjectName = errors.New("invalid object name")
	ErrObjectNotFound    = errors.New("object not found")
	ErrInvalidLanguage   = errors.New("unsupported language")
)

// NotFoundError reports that an object does not exist in the remote
// catalog. It is never retried.
type NotFoundError struct {
	// ObjectID is the id that was requested.
	ObjectID ObjectID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object %s not found", e.ObjectID)
}

// Is makes errors.Is(err, ErrObjectNotFound) match NotFoundError values.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrObjectNotFound
}

// SourceError reports a transient failure talking to the remote catalog.
// Callers may retry the operation.
type SourceError struct {
	// Op is the operation that failed, e.g. "fetch object".
	Op string

	// Err is the underlying cause.
	Err error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("catalog source: %s failed", e.Op)
	}
	return fmt.Sprintf("catalog source: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports invalid wiring configuration.
// It is fatal at startup and never retried.
type ConfigurationError struct {
	// Field is the configuration key at fault.
	Field string

	// Reason describes what is wrong with it.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// IsNotFound reports whether err indicates a missing upstream object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsRetryable reports whether err is worth retrying. Not-found errors and
// configuration errors are permanent; source errors are transient.
func IsRetryable(err error) bool {
	if err == nil || IsNotFound(err) {
		return false
	}
	var cfgErr *ConfigurationError
	return !errors.As(err, &cfgErr)
}
