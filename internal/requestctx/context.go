// Package requestctx provides request-scoped values (e.g. request_id) set by middleware.
package requestctx

import "context"

type contextKey struct{}

var requestIDKey = &contextKey{}

// SetRequestID stores request_id in the context.
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request_id from context, or "" if not set.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
