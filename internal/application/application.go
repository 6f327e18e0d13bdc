package application

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"explore_tours/internal/auth"
	"explore_tours/internal/config"
	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/service/rating"
	"explore_tours/internal/domain/service/tour"
	"explore_tours/internal/infrastructure/cache"
	"explore_tours/internal/infrastructure/memstore"
	appmetrics "explore_tours/internal/infrastructure/metrics"
	"explore_tours/internal/infrastructure/persistence"
	"explore_tours/internal/infrastructure/seed"
	"explore_tours/internal/server"
	"explore_tours/internal/worker"
	"explore_tours/pkg/application/connectors"
	"explore_tours/pkg/application/modules"
	"explore_tours/pkg/contextx"
	"explore_tours/pkg/httpx"
	"explore_tours/pkg/logx"
	"explore_tours/pkg/metrics"
	"explore_tours/pkg/probe"
)

const (
	seedFetchTimeout  = 30 * time.Second
	workerConcurrency = 2
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type tourStore interface {
	tour.TourRepository
	rating.TourRepository
}

type storage struct {
	tours    tourStore
	packages tour.PackageRepository
	ratings  rating.RatingRepository
}

// Run wires the service and blocks until ctx is cancelled or a server fails.
func Run(ctx context.Context, cfg config.Config) error {
	g, ctx := errgroup.WithContext(ctx)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	checks := map[string]probe.Check{}

	store, closeStore, err := openStorage(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer closeStore()

	tourService := tour.NewService(store.tours, store.packages)

	if err := tourService.SeedPackages(ctx, entity.DefaultTourPackages()); err != nil {
		return fmt.Errorf("tourService.SeedPackages: %w", err)
	}

	if err := importTours(ctx, cfg, tourService); err != nil {
		return err
	}

	ratingService := rating.NewService(store.tours, store.ratings).
		WithRecorder(appmetrics.NewRecorder(registry))

	if cfg.Redis.Enabled() {
		closeRedis := runAverageRefresh(ctx, g, cfg.Redis, ratingService, checks)
		defer closeRedis()
	} else {
		logger(ctx).Info("redis not configured, average cache and refresh worker disabled")
	}

	srv := server.NewServer(
		server.NewTourServer(tourService),
		server.NewRatingServer(ratingService),
		newGuard(ctx, cfg.Auth),
	)

	modules.HTTPServer{
		ListenAddress:   cfg.HTTP.ListenAddress,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, srv.Handler(server.RouterOptions{
		CORSOrigins:         cfg.HTTP.CORSOrigins,
		LogFieldMaxLen:      cfg.HTTP.LogFieldMaxLen,
		SensitiveDataMasker: logx.NewSensitiveDataMasker(),
		Collector:           metrics.NewHTTPCollector(registry),
	}))

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
		Checks:        checks,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metrics.ListenAddress,
		Gatherer:      registry,
	}.Run(ctx, g)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func openStorage(ctx context.Context, cfg config.Config, checks map[string]probe.Check) (storage, func(), error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logger(ctx).Warn("using in-memory storage, data is lost on restart")

		store := memstore.New()

		return storage{tours: store.Tours(), packages: store.Packages(), ratings: store.Ratings()}, func() {}, nil
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)

	if err := persistence.EnsureSchema(ctx, db); err != nil {
		pg.Close(ctx)
		return storage{}, nil, fmt.Errorf("persistence.EnsureSchema: %w", err)
	}

	checks["postgres"] = pg.Ping

	return storage{
		tours:    persistence.NewTourRepository(db),
		packages: persistence.NewPackageRepository(db),
		ratings:  persistence.NewRatingRepository(db),
	}, func() { pg.Close(context.WithoutCancel(ctx)) }, nil
}

// Seed sources may carry an access key in the query string.
//
//nolint:gochecknoglobals
var seedURLSecret = regexp.MustCompile(`((?:api[Kk]ey|token)=)[^&\s]+()`)

func importTours(ctx context.Context, cfg config.Config, tourService *tour.Service) error {
	if cfg.Seed.ToursSource == "" {
		return nil
	}

	loader := seed.NewLoader(httpx.NewClient(
		seedFetchTimeout,
		httpx.WithLogFieldMaxLen(cfg.HTTP.LogFieldMaxLen),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker(seedURLSecret)),
		httpx.WithoutResponseBody(),
	))

	n, err := tourService.ImportIfEmpty(ctx, func(ctx context.Context) ([]entity.TourSeed, error) {
		return loader.LoadSeedTours(ctx, cfg.Seed.ToursSource)
	})
	if err != nil {
		return fmt.Errorf("tourService.ImportIfEmpty: %w", err)
	}

	if n > 0 {
		logger(ctx).Info("seed tours imported", "count", n, "source", cfg.Seed.ToursSource)
	}

	return nil
}

// runAverageRefresh attaches the redis cache and refresh queue to ratingService
// and starts the worker.
func runAverageRefresh(
	ctx context.Context,
	g *errgroup.Group,
	cfg config.Redis,
	ratingService *rating.Service,
	checks map[string]probe.Check,
) func() {
	rds := &connectors.Redis{
		Address:        cfg.Address,
		Username:       cfg.Username,
		Password:       cfg.Password,
		DatabaseNumber: cfg.DB,
		PoolSize:       cfg.PoolSize,
	}

	client := asynq.NewClient(rds.AsynqOpt())

	ratingService.
		WithAverageCache(cache.NewAverageCache(rds.Client(ctx), cfg.AverageCacheTTL)).
		WithRefreshScheduler(worker.NewAverageRefreshScheduler(client))

	checks["redis"] = rds.Ping

	modules.AsynqServer{
		Redis:       rds.AsynqOpt(),
		Concurrency: workerConcurrency,
	}.Run(ctx, g, modules.AsynqQueues{worker.QueueDefault: 1}, modules.AsynqHandler{
		Pattern: worker.TypeAverageRefresh,
		Handle:  worker.NewAverageRefreshHandler(ratingService).Handle,
	})

	return func() {
		closeCtx := context.WithoutCancel(ctx)

		if err := client.Close(); err != nil {
			logger(closeCtx).Error("asynqClient.Close", logx.Error(err))
		}

		rds.Close(closeCtx)
	}
}

func newGuard(ctx context.Context, cfg config.Auth) *auth.Guard {
	if cfg.JWTSecret == "" {
		logger(ctx).Warn("AUTH_JWT_SECRET is empty, mutating endpoints are open")
		return auth.NewLocalGuard()
	}

	return auth.NewGuard(auth.NewJWTAuthenticator(cfg.JWTSecret), auth.DefaultPolicy())
}
