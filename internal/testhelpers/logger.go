package testhelpers

import (
	infralogger "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/logger"
)

// NewTestLogger creates a logger suitable for testing. Only errors reach
// stderr.
func NewTestLogger() infralogger.Logger {
	log, err := infralogger.New(infralogger.Config{
		Level:       "error",
		Development: true,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return infralogger.NewNop()
	}
	return log
}
