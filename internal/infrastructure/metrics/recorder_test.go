package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"explore_tours/internal/infrastructure/metrics"
)

func TestRecorder(t *testing.T) {
	rq := require.New(t)

	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.RatingsWritten("bulk", 3)
	r.RatingsWritten("create", 1)
	r.AverageCacheLookup(true)
	r.AverageCacheLookup(false)
	r.AverageCacheLookup(false)

	families, err := reg.Gather()
	rq.NoError(err)
	rq.Len(families, 2)

	n, err := testutil.GatherAndCount(reg, "tour_ratings_written_total")
	rq.NoError(err)
	rq.Equal(2, n)

	n, err = testutil.GatherAndCount(reg, "tour_average_cache_total")
	rq.NoError(err)
	rq.Equal(2, n)
}
