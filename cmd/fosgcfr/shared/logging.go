// Package shared holds the bits every fosgcfr subcommand needs and none
// of them owns: logger construction and signal-driven context
// cancellation. Adapted from cmd/pokerforbots/shared, swapped onto
// charmbracelet/log (the teacher's actually go.mod-declared logging
// dependency, unlike the zerolog that shared/logging.go used).
package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds a *log.Logger writing to stderr, colorized text by
// default or line-delimited JSON when json is true, matching
// cmd/pokerforbots/shared.SetupLogger/SetupStructuredLogger's two modes.
func NewLogger(debug, json bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	logger.SetLevel(level)
	if json {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}
