package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shaneclick1-cyber/Kinddraw/internal/auth"
)

type contextKey string

const adminKey contextKey = "admin"

func IsAdminFromContext(ctx context.Context) bool {
	val, ok := ctx.Value(adminKey).(bool)
	return ok && val
}

// AdminOnly requires a bearer token issued by the admin login. With no secret
// configured every request is rejected.
func AdminOnly(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeJSONError(w, http.StatusUnauthorized, "admin access disabled")
				return
			}
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing Authorization")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, "invalid Authorization")
				return
			}
			if _, err := auth.ParseAdminToken(secret, parts[1]); err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), adminKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
