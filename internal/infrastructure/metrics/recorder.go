package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts rating writes and average cache lookups.
type Recorder struct {
	written *prometheus.CounterVec
	lookups *prometheus.CounterVec
}

func NewRecorder(registerer prometheus.Registerer) *Recorder {
	r := &Recorder{
		written: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tour_ratings_written_total",
			Help: "Tour ratings written by operation.",
		}, []string{"op"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tour_average_cache_total",
			Help: "Average cache lookups by result.",
		}, []string{"result"}),
	}

	registerer.MustRegister(r.written, r.lookups)

	return r
}

func (r *Recorder) RatingsWritten(op string, n int) {
	r.written.WithLabelValues(op).Add(float64(n))
}

func (r *Recorder) AverageCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}

	r.lookups.WithLabelValues(result).Inc()
}
