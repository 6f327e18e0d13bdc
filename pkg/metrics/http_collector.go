package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPCollector holds the request metrics of the API server.
type HTTPCollector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPCollector(registerer prometheus.Registerer) *HTTPCollector {
	c := &HTTPCollector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Handled HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registerer.MustRegister(c.requests, c.duration)

	return c
}

func (c *HTTPCollector) Observe(method, route, status string, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, status).Inc()
	c.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *HTTPCollector) Requests() *prometheus.CounterVec {
	return c.requests
}
