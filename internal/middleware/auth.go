package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/airshop/internal/auth"
	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/telemetry"
)

// Authenticator resolves a bearer token into a principal.
// service.AdminService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// bearerToken returns the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAdmin rejects requests without a valid bearer token and stores the
// resolved principal in the request context.
func RequireAdmin(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respondUnauthorized(w, r)
				return
			}

			principal, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				respondWithError(w, r, err)
				return
			}

			ctx := domain.NewContextWithPrincipal(r.Context(), principal)
			ctx = WithLogAttrs(ctx, "user_id", principal.UserID, "role", principal.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability returns 403 unless the principal's role grants capability.
// It must run after RequireAdmin.
func RequireCapability(capability auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.Authorize(domain.PrincipalFromContext(r.Context()), capability); err != nil {
				respondWithError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SentryUser exposes the principal to telemetry.SentryContextMiddleware.
func SentryUser(ctx context.Context) *telemetry.UserInfo {
	principal := domain.PrincipalFromContext(ctx)
	if principal == nil {
		return nil
	}
	return &telemetry.UserInfo{
		ID:       strconv.FormatInt(principal.UserID, 10),
		Username: principal.Username,
	}
}
