package logger

import (
	"context"
	"log/slog"
)

type ContextKey string

const (
	// Business context keys, OpenTelemetry-style dotted names.
	JobIDKey    ContextKey = "trend.job.id"
	IndustryKey ContextKey = "trend.industry"
)

// ContextLogger derives per-job loggers from request context for async
// processing.
type ContextLogger struct {
	logger      *slog.Logger
	serviceName string
}

// NewContextLogger wraps base so derived loggers share its handler.
func NewContextLogger(base *slog.Logger, name string) *ContextLogger {
	return &ContextLogger{
		logger:      base,
		serviceName: name,
	}
}

// WithContext returns a logger with context values extracted and added as fields
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger.With("service", cl.serviceName)

	var fields []any

	if jobID := ctx.Value(JobIDKey); jobID != nil {
		fields = append(fields, string(JobIDKey), jobID)
	}
	if industry := ctx.Value(IndustryKey); industry != nil {
		fields = append(fields, string(IndustryKey), industry)
	}

	if len(fields) > 0 {
		logger = logger.With(fields...)
	}

	return logger
}

// WithJobID adds job ID to context for observability
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, JobIDKey, jobID)
}

// WithIndustry adds the analyzed industry to context
func WithIndustry(ctx context.Context, industry string) context.Context {
	return context.WithValue(ctx, IndustryKey, industry)
}
