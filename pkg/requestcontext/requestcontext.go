// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets them, services read them, and tests
// inject them without running the HTTP stack.
package requestcontext

import (
	"context"
	"time"
)

type (
	coupleIDKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	bearerTokenKey struct{}
)

// CoupleID retrieves the authenticated couple identifier, or "" if unset.
func CoupleID(ctx context.Context) string {
	if v, ok := ctx.Value(coupleIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithCoupleID injects a couple identifier into the context.
func WithCoupleID(ctx context.Context, coupleID string) context.Context {
	return context.WithValue(ctx, coupleIDKey{}, coupleID)
}

// RequestID retrieves the request correlation id, or "" if unset.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects a request correlation id into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request-pinned time when one was injected, otherwise the
// wall clock. Services use this so tests can freeze time.
func Now(ctx context.Context) time.Time {
	if v, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return v
	}
	return time.Now()
}

// WithTime pins the clock for the remainder of a request or test.
func WithTime(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, now)
}

// BearerToken retrieves the raw bearer token forwarded to internal services.
func BearerToken(ctx context.Context) string {
	if v, ok := ctx.Value(bearerTokenKey{}).(string); ok {
		return v
	}
	return ""
}

// WithBearerToken stores the raw bearer token for internal call forwarding.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey{}, token)
}
