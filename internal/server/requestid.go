package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/observability"
)

const requestIDHeader = "X-Request-Id"

// newRequestIDMiddleware tags every request with a request id, echoes it in
// the response header, and writes one completion line per request. A caller
// supplied id is kept so ids stay stable across the HMPPS ingress chain.
func newRequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			ctx := observability.WithRequestID(r.Context(), reqID)
			w.Header().Set(requestIDHeader, reqID)
			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))
			observability.LoggerFromContext(ctx).Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
