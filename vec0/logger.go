package vec0

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with table-level fields.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. A nil handler logs
// text to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithTable tags records with a qualified table name.
func (l *Logger) WithTable(name string) *Logger {
	return &Logger{Logger: l.Logger.With("table", name)}
}

// LogWrite logs an insert, update or delete.
func (l *Logger) LogWrite(ctx context.Context, op string, rowid int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"rowid", rowid,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, op+" completed",
		"rowid", rowid,
	)
}

// LogSearch logs a knn query.
func (l *Logger) LogSearch(ctx context.Context, k, results, scanned int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"k", k,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "search completed",
		"k", k,
		"results", results,
		"scanned", scanned,
	)
}
