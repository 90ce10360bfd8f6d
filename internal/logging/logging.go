// Package logging builds the process logger. Output goes to stderr because
// stdout carries the stdio transport.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a [log.Logger] writing to w with timestamps enabled.
//
// The writer defaults to [os.Stderr]. An empty level means info.
func New(w io.Writer, level string) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", level, err)
		}
		lvl = parsed
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          "spotify-mcp",
	})
	return logger, nil
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// With creates a child logger carrying kv on every entry.
func With(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// CallID generates an identifier for correlating the log lines of one tool call.
func CallID() string {
	return uuid.NewString()
}
