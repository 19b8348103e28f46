package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Attribute keys used across the directory so log queries can join HTTP,
// service and broker lines.
const (
	KeyRequestID = "req_id"
	KeyModule    = "module"
	KeyLayer     = "layer"
	KeyEvent     = "event"
	KeyErr       = "err"
)

// WithContext stores logger in ctx. Requests get one from HTTPMiddleware and
// consumed deliveries get one from the subscriber.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored by WithContext, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// Component returns the context logger tagged with module and layer, e.g.
// ("users", "service") or ("publisher", "messaging").
func Component(ctx context.Context, module, layer string) *slog.Logger {
	return FromContext(ctx).With(KeyModule, module, KeyLayer, layer)
}
