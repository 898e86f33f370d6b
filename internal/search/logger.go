package search

import (
	"fdk/internal/logger"
)

// log is the package-level logger for search operations.
var log = logger.Default()

// SetLogger sets the logger for all search operations.
func SetLogger(l *logger.Logger) {
	if l != nil {
		log = l.With("component", "search")
	}
}
