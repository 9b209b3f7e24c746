package middlewarex

import (
	"net/http"
	"strings"

	"paygate/internal/auth"
	"paygate/internal/config"
)

// BearerAuth validates the access token and stores the caller identity in
// the request context for the resolver downstream.
func BearerAuth(cfg config.AuthCfg) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")

			u, err := auth.ParseToken(cfg.JWTSecret, token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}
