package middleware

import (
	"net/http"
	"time"

	"github.com/easydelivery/easydelivery/internal/metrics"
)

// Metrics records request duration by method, route pattern and status.
// Route patterns keep label cardinality bounded regardless of parcel ids.
func Metrics(recorder metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			recorder.ObserveHTTPRequest(r.Method, routePattern(r), wrapped.status, time.Since(start))
		})
	}
}
