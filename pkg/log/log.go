package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

var (
	defaultLogLevel slog.LevelVar
	defaultLogger   = newJSONLogger(os.Stdout)
)

func init() {
	defaultLogLevel.Set(slog.LevelInfo)
}

func newJSONLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     &defaultLogLevel,
	}))
}

type contextKey struct{}

var loggerKey = contextKey{}

// Ctx returns the logger from the context. If no logger is found, it returns the default logger.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a new context with the given logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithRequestID returns a new context whose logger tags every record with
// the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return With(ctx, Ctx(ctx).With(slog.String("requestID", requestID)))
}

// SetDefaultLogLevel sets the level of the default logger and of slog's
// default logger.
func SetDefaultLogLevel(level slog.Level) {
	defaultLogLevel.Set(level)
	slog.SetDefault(defaultLogger)
}
