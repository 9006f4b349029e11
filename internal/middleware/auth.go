package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ecollinet/chasse-backend/internal/auth"
	"github.com/ecollinet/chasse-backend/internal/http/respond"
)

// RequireAdmin guards a route with a bearer credential: either the shared
// admin token (compared in constant time) or a JWT minted by the token
// manager. Missing or malformed headers are 401, a wrong credential is 403.
func RequireAdmin(adminToken string, tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respond.Error(w, http.StatusUnauthorized, "no authorization header")
			return
		}
		scheme, credential, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || strings.TrimSpace(credential) == "" {
			respond.Error(w, http.StatusUnauthorized, "malformed authorization header")
			return
		}
		if subtle.ConstantTimeCompare([]byte(credential), []byte(adminToken)) == 1 {
			next.ServeHTTP(w, r)
			return
		}
		if tokens != nil && tokens.Validate(credential) == nil {
			next.ServeHTTP(w, r)
			return
		}
		respond.Error(w, http.StatusForbidden, "wrong token")
	})
}
