package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type claimsKey struct{}

// UserFromContext returns the authenticated actor, or nil.
func UserFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}

// WithUser returns ctx carrying c. Used by the WebSocket handler, which
// authenticates from a query parameter, and by tests.
func WithUser(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// AuthMiddleware requires a valid Bearer token on /api/ routes. Operational
// endpoints and the WebSocket stream (token in query) are skipped.
func AuthMiddleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if !strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/api/v1/ws/") || path == "/api/v1/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired access token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
		})
	}
}

// RequireRole wraps h so that only actors holding one of roles reach it.
func RequireRole(h http.HandlerFunc, roles ...Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := UserFromContext(r.Context())
		if c == nil {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, role := range roles {
			if Role(c.Role) == role {
				h(w, r)
				return
			}
		}
		writeAuthError(w, http.StatusForbidden, "role "+c.Role+" may not perform this operation")
	}
}

func writeAuthError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://alzheon.app/problems/auth-error",
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
