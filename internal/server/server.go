package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"explore_tours/internal/auth"
	"explore_tours/pkg/logx"
	"explore_tours/pkg/metrics"
	"explore_tours/pkg/middlewarex"
)

// Server объединяет HTTP серверы конкретных сущностей за одним роутером.
type Server struct {
	TourServer
	RatingServer

	guard *auth.Guard
}

func NewServer(
	tourServer TourServer,
	ratingServer RatingServer,
	guard *auth.Guard,
) Server {
	if guard == nil {
		guard = auth.NewLocalGuard()
	}

	return Server{
		TourServer:   tourServer,
		RatingServer: ratingServer,
		guard:        guard,
	}
}

type RouterOptions struct {
	CORSOrigins         []string
	LogFieldMaxLen      int
	SensitiveDataMasker logx.SensitiveDataMaskerInterface
	Collector           *metrics.HTTPCollector
}

// Handler собирает роутер API с цепочкой middleware.
func (s Server) Handler(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	masker := opts.SensitiveDataMasker
	if masker == nil {
		masker = logx.NewNopSensitiveDataMasker()
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Trace-Id"},
			ExposedHeaders: []string{"X-Trace-Id"},
			MaxAge:         300,
		}),
	)

	if opts.Collector != nil {
		r.Use(middlewarex.Metrics(opts.Collector))
	}

	r.Use(
		middlewarex.RequestLogging(masker, opts.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, opts.LogFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}
