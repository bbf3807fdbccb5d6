package contextkeys

import (
	"context"
	"log/slog"
	"os"

	"github.com/ndestates/google-stats-sub001/internal/adapters/logger"
	"github.com/ndestates/google-stats-sub001/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextWithLogger places the logger into the context.
func ContextWithLogger(ctx context.Context, l port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// LoggerFromContext extracts the logger from the context.
// Falls back to a plain stdout logger so callers never get nil.
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if l, ok := ctx.Value(loggerKey).(port.LoggerPort); ok {
		return l
	}
	return logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer: os.Stdout,
		Level:  slog.LevelInfo,
	})
}
