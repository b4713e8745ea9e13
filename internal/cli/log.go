// Package cli implements the sbomgen command-line interface.
//
// This package provides commands for turning resolved dependency reports
// into SBOM documents, inspecting reports, and managing the document cache.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Write SBOM documents (JSON, DOT, SVG) for one or more reports
//   - inspect: Summarize reports and optionally export them as JSON trees
//   - cache: Clear or locate the document cache
//
// # Configuration
//
// Settings come from built-in defaults, then sbomgen.toml (or --config),
// then the environment (a .env file is loaded first), then flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the stderr logger shared by all commands. Timestamps
// are "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one input from start to its final status line.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time, rounded
// to the millisecond, as "took".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger stored by the root command, or
// log.Default() for contexts that never passed through it (tests calling
// subcommands directly).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
