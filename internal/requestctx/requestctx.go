// Package requestctx carries the per-request correlation id through a
// context so layers below HTTP can tag their output with it.
package requestctx

import "context"

type key int

const requestID key = iota

// WithRequestID returns a child context tagged with the correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestID, id)
}

// GetRequestID returns the correlation id, or "" when the context was
// never tagged.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestID).(string)
	return id
}
