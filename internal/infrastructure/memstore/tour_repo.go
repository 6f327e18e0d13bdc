package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"explore_tours/internal/domain"
	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
	"explore_tours/pkg/errcodes"
)

type TourRepository struct {
	s *Store
}

func (r *TourRepository) Create(_ context.Context, draft entity.TourDraft) (*entity.Tour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, err := r.s.insertTour(draft)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *TourRepository) CreateBatch(_ context.Context, drafts []entity.TourDraft) ([]*entity.Tour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, d := range drafts {
		if _, ok := r.s.packages[d.PackageCode]; !ok {
			return nil, fmt.Errorf("failed at index %d: %w", i, packageNotFound(d.PackageCode))
		}
	}

	created := make([]*entity.Tour, 0, len(drafts))

	for _, d := range drafts {
		t, err := r.s.insertTour(d)
		if err != nil {
			return nil, err
		}

		created = append(created, &t)
	}

	return created, nil
}

func (r *TourRepository) Get(_ context.Context, id int64) (*entity.Tour, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tours[id]
	if !ok {
		return nil, tourNotFound(id)
	}

	return &t, nil
}

// List orders tours by id.
func (r *TourRepository) List(_ context.Context, filter entity.TourFilter, req value.PageRequest) (value.Page[entity.Tour], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tours := lo.Filter(lo.Values(r.s.tours), func(t entity.Tour, _ int) bool {
		return filter.PackageCode == "" || t.PackageCode == filter.PackageCode
	})

	slices.SortFunc(tours, func(a, b entity.Tour) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return value.Window(tours, req), nil
}

func (r *TourRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tours[id]; !ok {
		return tourNotFound(id)
	}

	delete(r.s.tours, id)

	for key := range r.s.ratings {
		if key.TourID == id {
			delete(r.s.ratings, key)
		}
	}

	return nil
}

func (r *TourRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.s.tours)), nil
}

func (r *TourRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.tours[id]

	return ok, nil
}

// insertTour expects the write lock to be held.
func (s *Store) insertTour(d entity.TourDraft) (entity.Tour, error) {
	if _, ok := s.packages[d.PackageCode]; !ok {
		return entity.Tour{}, packageNotFound(d.PackageCode)
	}

	s.lastTourID++

	t := entity.Tour{
		ID:          s.lastTourID,
		Title:       d.Title,
		Description: d.Description,
		Blurb:       d.Blurb,
		Price:       d.Price,
		Duration:    d.Duration,
		Bullets:     d.Bullets,
		Keywords:    d.Keywords,
		PackageCode: d.PackageCode,
		Difficulty:  d.Difficulty,
		Region:      d.Region,
	}
	s.tours[t.ID] = t

	return t, nil
}

func tourNotFound(id int64) error {
	return domain.NewNotFoundError(errcodes.TourNotFound, fmt.Sprintf("tour %d does not exist", id))
}

func packageNotFound(code string) error {
	return domain.NewNotFoundError(errcodes.TourPackageNotFound, fmt.Sprintf("tour package %q does not exist", code))
}
