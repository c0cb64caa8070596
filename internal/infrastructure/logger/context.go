package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerCtxKey struct{}

type requestIDCtxKey struct{}

// WithContext attaches a logger to ctx so lower layers can log with the
// request's fields without threading *zap.Logger through every signature.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// FromContext returns the context's logger, or a no-op logger when none
// was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// ContextWithRequestID records the request's correlation ID for SQL traces
// and other context-only call sites.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, requestID)
}

// RequestIDFromContext returns the correlation ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}
