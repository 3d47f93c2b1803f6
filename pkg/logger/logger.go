package logger

import (
	"context"

	"go.uber.org/zap"

	"habitflow/pkg/trace"
)

// NewLogger builds the production logger. level overrides the default info
// level when it parses ("debug", "warn", ...).
func NewLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if level != "" {
		if lvl, err := zap.ParseAtomicLevel(level); err == nil {
			cfg.Level = lvl
		}
	}
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return l
}

// WithTrace adds the request trace_id from ctx to logger.
func WithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	traceID := trace.FromContext(ctx)
	if traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}
