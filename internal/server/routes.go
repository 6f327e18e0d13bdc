package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"explore_tours/internal/auth"
	"explore_tours/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/tours", func(r chi.Router) {
		r.Get("/", handler(s.getTours))
		r.With(s.guard.Require(auth.ActionTourWrite)).Post("/", handler(s.postTour))

		r.Route("/{tourId}", func(r chi.Router) {
			r.Get("/", handler(s.getTour))
			r.With(s.guard.Require(auth.ActionTourWrite)).Delete("/", handler(s.deleteTour))

			r.Route("/ratings", func(r chi.Router) {
				// public
				r.Get("/", handler(s.getRatings))
				r.Get("/average", handler(s.getAverage))

				r.Group(func(r chi.Router) {
					r.Use(s.guard.Require(auth.ActionRatingWrite))

					r.Post("/", handler(s.postRating))
					r.Put("/", handler(s.putRating))
					r.Patch("/", handler(s.patchRating))
					r.Delete("/{customerId}", handler(s.deleteRating))
					r.Post("/bulk/{score}", handler(s.postBulkRatings))
				})
			})
		})
	})

	r.Route("/packages", func(r chi.Router) {
		r.Get("/", handler(s.getPackages))
		r.Get("/{code}", handler(s.getPackage))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
