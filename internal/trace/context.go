package trace

import "context"

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// WithRequestID returns a new context carrying the given request ID.
//
// An empty string is a valid request ID, distinct from "not set": callers
// that want to detect absence should use [RequestIDFrom]'s ok return value
// rather than checking for an empty string.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom extracts the request ID from ctx, if any.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}
