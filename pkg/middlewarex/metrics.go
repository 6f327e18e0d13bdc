package middlewarex

import (
	"cmp"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zenazn/goji/web/mutil"

	"explore_tours/pkg/metrics"
)

// Metrics records request count and latency per chi route pattern, so
// /tours/1 and /tours/2 share one series.
func Metrics(collector *metrics.HTTPCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := mutil.WrapWriter(w)

			next.ServeHTTP(lw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			collector.Observe(
				r.Method,
				route,
				strconv.Itoa(cmp.Or(lw.Status(), http.StatusOK)),
				time.Since(start),
			)
		})
	}
}
