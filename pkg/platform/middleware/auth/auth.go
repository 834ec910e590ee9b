// Package auth resolves bearer tokens into request claims.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apierrors "authsession/pkg/api-errors"
	"authsession/pkg/platform/httputil"
	"authsession/pkg/platform/middleware/request"
)

// TokenValidator validates an access token, including whether its session was revoked.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims identify the caller of an authenticated request.
type Claims struct {
	UserID    string
	SessionID string
}

type contextKeyClaims struct{}

// ClaimsFrom returns the claims stored by Bearer.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(contextKeyClaims{}).(*Claims)
	return c, ok && c != nil
}

// WithClaims stores c in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, contextKeyClaims{}, c)
}

// Bearer attaches the claims of a valid bearer token to the request.
// Requests without a token, or with an invalid one, continue anonymously so
// that public operations still work; protected handlers check ClaimsFrom.
func Bearer(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.DebugContext(ctx, "ignoring invalid bearer token",
					"error", err,
					"request_id", request.RequestIDFrom(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

// RequireAuth rejects requests that Bearer did not authenticate.
func RequireAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, ok := ClaimsFrom(ctx); !ok {
				logger.WarnContext(ctx, "unauthorized access - missing or invalid token",
					"request_id", request.RequestIDFrom(ctx),
				)
				httputil.WriteError(w, apierrors.New(apierrors.CodeUnauthenticated, "Missing or invalid Authorization header"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
