// Package logging provides the process-wide structured logger for sqlsplit.
//
// The package wraps [log/slog] and exposes a single global logger instance
// that is initialized once and then retrieved via GetLogger. The reader, lexer
// and splitter obtain their loggers here so that level and destination are
// controlled from the CLI flags in one place.
//
// # Initialisation
//
//	if err := logging.Init(logging.Config{Level: logging.LevelDebug}); err != nil {
//	    log.Fatal(err)
//	}
//
// InitDefault writes WARN-level text logs to stderr. Stdout is left to the
// statements the CLI prints.
//
// # Context helpers
//
//	log := logging.WithComponent("window") // adds component field
//	log := logging.WithFile(path)          // adds file field
//	log := logging.WithStatement(i, pos)   // adds statement and pos fields
package logging
