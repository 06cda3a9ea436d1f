package logging

import (
	"log/slog"
)

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("splitter")
//	log.Debug("statement emitted", "tokens", n)
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithFile creates a logger with input file context.
// The CLI uses "-" for standard input.
//
// Example:
//
//	log := logging.WithFile("schema.sql")
//	log.Info("split complete", "statements", count)
func WithFile(path string) *slog.Logger {
	return GetLogger().With("file", path)
}

// WithStatement creates a logger with the ordinal and start position of a statement.
func WithStatement(index int, pos int64) *slog.Logger {
	return GetLogger().With("statement", index, "pos", pos)
}

// WithError creates a logger with error context.
//
// Example:
//
//	log := logging.WithError(err)
//	log.Error("split failed", "file", path)
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
