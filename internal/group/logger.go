package group

import (
	"fdk/internal/logger"
)

// log is the package-level logger for grouping operations.
var log = logger.Default()

// SetLogger sets the logger for all grouping operations.
func SetLogger(l *logger.Logger) {
	if l != nil {
		log = l.With("component", "group")
	}
}
