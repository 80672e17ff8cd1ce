// Package logging builds the process slog.Logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a logger tagged with service: JSON, or plain text when debug
// is set.
func New(service, level string, debug bool) *slog.Logger {
	return newLogger(os.Stdout, service, level, debug)
}

func newLogger(w io.Writer, service, level string, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFromString(level)}
	if debug {
		opts.Level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(w, opts)).With("service", service)
	}
	return slog.New(slog.NewJSONHandler(w, opts)).With("service", service)
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
