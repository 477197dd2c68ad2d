package jwtcodec

import "context"

// contextKey is an unexported type for context keys to prevent collisions
type contextKey string

const (
	claimsContextKey    contextKey = "github.com/Wang-tianhao/vibrant-jwt-codec-go/jwtcodec:claims"
	requestIDContextKey contextKey = "github.com/Wang-tianhao/vibrant-jwt-codec-go/jwtcodec:request_id"
)

// WithClaims stores decoded JWT claims in the context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// GetClaims retrieves decoded JWT claims from the context.
// Returns nil, false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// MustGetClaims retrieves claims from context and panics if not present.
// Use only behind JWTAuth or the gRPC interceptors.
func MustGetClaims(ctx context.Context) *Claims {
	claims, ok := GetClaims(ctx)
	if !ok {
		panic("jwtcodec: claims not found in context")
	}
	return claims
}

// WithRequestID stores a request ID in context for log correlation
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}
