package auth

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// HeaderAPIKey is the header carrying the key for the admin trust boundary.
const HeaderAPIKey = "X-Api-Key"

// KeyVerifier checks whether an API key exists and is not revoked.
type KeyVerifier interface {
	VerifyKey(key string) bool
}

// APIKeyMiddleware protects routes behind the API-key trust boundary, which
// is independent of user authentication. A missing, unknown or revoked key
// is answered with 406.
func APIKeyMiddleware(verifier KeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderAPIKey)
			if key == "" {
				http.Error(w, "Authentication required", http.StatusNotAcceptable)
				return
			}
			if !verifier.VerifyKey(key) {
				log.Warn().Str("path", r.URL.Path).Msg("Rejected request with bad API key")
				http.Error(w, "Invalid API key", http.StatusNotAcceptable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
