package log

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// DefaultContextProvider supplies the context used by the context-unaware
// logging functions and methods.
var DefaultContextProvider = context.TODO //nolint:gochecknoglobals

// The process-wide default logger, used by the package-level functions.
// It writes to stderr until reconfigured with [Config].
//
//nolint:gochecknoglobals
var (
	defaultMutex  sync.RWMutex
	defaultLogger = Make(os.Stderr)
)

// Default returns the process-wide default logger.
func Default() Logger {
	defaultMutex.RLock()
	defer defaultMutex.RUnlock()

	return defaultLogger
}

// Config reconfigures the process-wide default logger in place. Options
// are applied over the current configuration, so repeated calls compose.
func Config(opts ...Option) {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()

	defaultLogger = defaultLogger.Wrap(opts...)
}

// TraceContext logs to the default logger at Trace level.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().TraceContext(ctx, msg, attrs...)
}

// Trace logs to the default logger at Trace level.
func Trace(msg string, attrs ...slog.Attr) {
	Default().TraceContext(DefaultContextProvider(), msg, attrs...)
}

// DebugContext logs to the default logger at Debug level.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().DebugContext(ctx, msg, attrs...)
}

// Debug logs to the default logger at Debug level.
func Debug(msg string, attrs ...slog.Attr) {
	Default().DebugContext(DefaultContextProvider(), msg, attrs...)
}

// InfoContext logs to the default logger at Info level.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().InfoContext(ctx, msg, attrs...)
}

// Info logs to the default logger at Info level.
func Info(msg string, attrs ...slog.Attr) {
	Default().InfoContext(DefaultContextProvider(), msg, attrs...)
}

// WarnContext logs to the default logger at Warn level.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().WarnContext(ctx, msg, attrs...)
}

// Warn logs to the default logger at Warn level.
func Warn(msg string, attrs ...slog.Attr) {
	Default().WarnContext(DefaultContextProvider(), msg, attrs...)
}

// ErrorContext logs to the default logger at Error level.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().ErrorContext(ctx, msg, attrs...)
}

// Error logs to the default logger at Error level.
func Error(msg string, attrs ...slog.Attr) {
	Default().ErrorContext(DefaultContextProvider(), msg, attrs...)
}
