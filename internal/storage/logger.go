package storage

import (
	"fdk/internal/logger"
)

// log is the package-level logger for storage operations.
var log = logger.Default()

// SetLogger sets the logger for all storage operations. Call it before
// opening any store.
func SetLogger(l *logger.Logger) {
	if l != nil {
		log = l.With("component", "storage")
	}
}
