// Package cli implements the onnxspect command-line interface.
//
// Commands:
//   - info: summarize a model (meta info, op histogram, I/O schema,
//     parameter count)
//   - list: print a model's metadata entries
//   - export: write metadata to a tab-separated text file
//   - import: apply an edited metadata file back onto a model
//   - tree: browse a model interactively
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context; the analysis packages themselves never
// log.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, falling back to
// log.Default so commands always have a valid logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
