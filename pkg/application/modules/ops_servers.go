package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"explore_tours/pkg/metrics"
	"explore_tours/pkg/probe"
)

type runner interface {
	Run(ctx context.Context) error
}

// runOpsServer starts an operational listener in g. An empty address disables
// it.
func runOpsServer(ctx context.Context, g *errgroup.Group, name, address string, newServer func() runner) {
	if address == "" {
		logger(ctx).Info(name+" disabled", slog.String("reason", "empty listen address"))

		return
	}

	srv := newServer()

	g.Go(func() error {
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("%s.Run: %w", name, err)
		}

		return nil
	})
}

// ProbeServer serves liveness and readiness with the given readiness checks.
type ProbeServer struct {
	Name          string
	Version       string
	ListenAddress string
	Checks        map[string]probe.Check
}

func (p ProbeServer) Run(ctx context.Context, g *errgroup.Group) {
	runOpsServer(ctx, g, "probeServer", p.ListenAddress, func() runner {
		return probe.NewServer(p.ListenAddress, probe.Options{Name: p.Name, Version: p.Version}, p.Checks)
	})
}

// MetricServer exposes Gatherer in the Prometheus text format.
type MetricServer struct {
	ListenAddress string
	Gatherer      prometheus.Gatherer
}

func (m MetricServer) Run(ctx context.Context, g *errgroup.Group) {
	runOpsServer(ctx, g, "prometheusServer", m.ListenAddress, func() runner {
		return metrics.NewPrometheusServer(m.ListenAddress, m.Gatherer)
	})
}
