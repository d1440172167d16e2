package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const (
	HeaderXRequestID = "X-Request-Id"
	HeaderAdminToken = "x-admin-token"

	// ContextKeyRequestID is the context key for the request correlation id.
	ContextKeyRequestID contextKey = "request_id"
)

// RequestTag assigns each request a correlation id (reusing the caller's
// X-Request-Id when present, otherwise a fresh UUID), stores it in the
// context and echoes it on the response so client and server logs can be
// joined.
func RequestTag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), ContextKeyRequestID, id)
		w.Header().Set(HeaderXRequestID, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the correlation id set by RequestTag, or ""
// when the middleware did not run (e.g. in unit tests).
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}
