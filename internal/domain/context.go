// Package domain provides the core business types, error model and
// context helpers for the shop backend.
//
// Context helpers centralize request-scoped data access so handlers and
// services read the authenticated principal the same way.
package domain

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// principalContextKey stores the authenticated admin principal.
	principalContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// --- Principal Context Helpers ---

// NewContextWithPrincipal returns a new context with the principal attached.
func NewContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext retrieves the principal from context.
// Returns nil if the request is anonymous.
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, _ := ctx.Value(principalContextKey).(*Principal)
	return principal
}

// PrincipalIDFromContext retrieves the principal's user ID, or 0 when anonymous.
func PrincipalIDFromContext(ctx context.Context) int64 {
	if principal := PrincipalFromContext(ctx); principal != nil {
		return principal.UserID
	}
	return 0
}

// MustPrincipal retrieves the principal from context, panicking if not present.
// Use it only behind middleware that guarantees authentication.
func MustPrincipal(ctx context.Context) *Principal {
	principal := PrincipalFromContext(ctx)
	if principal == nil {
		panic("principal required in context but not found")
	}
	return principal
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}

// IsAuthenticated returns true if there is a principal in context.
func IsAuthenticated(ctx context.Context) bool {
	return PrincipalFromContext(ctx) != nil
}
