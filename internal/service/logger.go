package service

import (
	"fdk/internal/logger"
)

// log is the package-level logger for service operations.
var log = logger.Default()

// SetLogger sets the logger for all service operations.
func SetLogger(l *logger.Logger) {
	if l != nil {
		log = l.With("component", "service")
	}
}
