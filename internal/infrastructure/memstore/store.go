// Package memstore keeps tours, packages and ratings in process memory. It
// backs local runs with STORAGE_DRIVER=memory and the HTTP tests.
package memstore

import (
	"sync"

	"github.com/samber/lo"

	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
)

type Store struct {
	mu         sync.RWMutex
	lastTourID int64
	tours      map[int64]entity.Tour
	packages   map[string]entity.TourPackage
	ratings    map[value.RatingKey]entity.TourRating
}

func New() *Store {
	return &Store{
		tours:    make(map[int64]entity.Tour),
		packages: make(map[string]entity.TourPackage),
		ratings:  make(map[value.RatingKey]entity.TourRating),
	}
}

func (s *Store) Tours() *TourRepository {
	return &TourRepository{s: s}
}

func (s *Store) Packages() *PackageRepository {
	return &PackageRepository{s: s}
}

func (s *Store) Ratings() *RatingRepository {
	return &RatingRepository{s: s}
}

func cloneRating(r entity.TourRating) entity.TourRating {
	if r.Comment != nil {
		r.Comment = lo.ToPtr(*r.Comment)
	}

	return r
}
