package fetch

import (
	"fdk/internal/logger"
)

// log is the package-level logger for fetch operations.
var log = logger.Default()

// SetLogger sets the logger for all fetch operations.
func SetLogger(l *logger.Logger) {
	if l != nil {
		log = l.With("component", "fetch")
	}
}
