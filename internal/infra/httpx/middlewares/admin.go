package middlewares

import (
	"crypto/subtle"
	"net/http"
)

// AdminOnly gates the administrative endpoints behind the shared secret
// presented in the x-admin-token header. This is a capability check, not an
// identity system: there is one secret and no notion of distinct admins.
//
// An empty secret means open mode — every request is authorized. That is the
// local development setup; production configures ADMIN_TOKEN out-of-band.
func AdminOnly(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(HeaderAdminToken)
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
