package flags

import (
	"context"
	"errors"
)

var errNilDocument = errors.New("document is not a mapping")

type requestIDKey struct{}

// WithRequestID attaches a request id that Engine includes in its log lines
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id set by WithRequestID, or ""
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
