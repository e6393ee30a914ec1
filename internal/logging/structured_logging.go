package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// loggerKey is used to store the logger in context
type loggerKey struct{}

// NewLogger creates a logger at level writing "text" records for terminals
// or JSON records for anything else.
func NewLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps debug|info|warn|error onto slog levels.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

func appendAttrs(args []any, attrs []slog.Attr) []any {
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

// LogError logs err under message at error level.
func LogError(logger *slog.Logger, message string, err error, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	args := appendAttrs([]any{slog.String("error", err.Error())}, attrs)
	logger.Error(message, args...)
}

// LogOperation logs a completed operation at info level. A zero "duration"
// attribute is dropped.
func LogOperation(logger *slog.Logger, operation string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	attrs = slices.DeleteFunc(slices.Clone(attrs), func(attr slog.Attr) bool {
		return attr.Key == "duration" && attr.Value.Kind() == slog.KindDuration && attr.Value.Duration() == 0
	})
	logger.Info(operation, appendAttrs(nil, attrs)...)
}

// LogHTTPRequest logs one served request as "http_request".
func LogHTTPRequest(logger *slog.Logger, method, path string, status int, durationMs float64, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	args := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("duration_ms", durationMs),
	}
	logger.Info("http_request", appendAttrs(args, attrs)...)
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves a logger from the context, or returns a default logger
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return slog.Default()
}
