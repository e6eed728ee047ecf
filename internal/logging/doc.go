// Package logging provides structured logging for remedy.
//
// It wraps Go's log/slog. By default entries are written as text to
// stderr; when a log file is configured they are written as JSON lines
// and the file is rotated by size.
//
// # Basic Usage
//
//	logger, err := logging.New(logging.Options{Level: "INFO", File: cfg.Logging.File})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("plan generated", "tasks", len(plan.Tasks), "duration_ms", 12)
//
// # Child Loggers
//
// Child loggers carry persistent attributes and share the parent's
// output:
//
//	inputLogger := logger.WithInput("scan.json")
//	inputLogger.Warn("dependency cycle", "tasks", ids)
//
// Output (JSON handler):
//
//	{"time":"...","level":"WARN","msg":"dependency cycle","input":"scan.json","tasks":["t-1","t-2"]}
//
// WithRequest tags entries from the HTTP server, WithCommand tags entries
// from a CLI subcommand, and With adds arbitrary key-value pairs.
//
// # Thread Safety
//
// Logger and RotatingWriter are safe for concurrent use. Child loggers
// share the parent's handler and file.
package logging
