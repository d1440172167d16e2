package middlewares

import (
	"net/http"

	"go.opentelemetry.io/otel"
)

// TraceRequests opens a span per request on the global TracerProvider.
// Combined with the telemetry ContextHandler, every log line written while
// handling the request carries the trace_id/span_id of this span.
func TraceRequests(next http.Handler) http.Handler {
	tracer := otel.Tracer("httpx")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
