package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teeshirtate/storefront-backend/pkg/metrics"
)

// Metrics records per-route request durations. The chi route pattern keeps
// the label cardinality bounded regardless of path parameters.
func Metrics(m *metrics.StorefrontMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			m.ObserveRequest(route, r.Method, time.Since(start))
		})
	}
}
