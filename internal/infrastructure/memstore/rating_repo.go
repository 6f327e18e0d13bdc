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

type RatingRepository struct {
	s *Store
}

func (r *RatingRepository) Create(_ context.Context, rating *entity.TourRating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkInsert(rating.Key, nil); err != nil {
		return err
	}

	r.s.ratings[rating.Key] = cloneRating(*rating)

	return nil
}

// CreateBatch stores every rating or, on the first conflict, none.
func (r *RatingRepository) CreateBatch(_ context.Context, ratings []*entity.TourRating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pending := make(map[value.RatingKey]struct{}, len(ratings))

	for i, rating := range ratings {
		if err := r.s.checkInsert(rating.Key, pending); err != nil {
			return fmt.Errorf("failed at index %d: %w", i, err)
		}

		pending[rating.Key] = struct{}{}
	}

	for _, rating := range ratings {
		r.s.ratings[rating.Key] = cloneRating(*rating)
	}

	return nil
}

func (r *RatingRepository) Get(_ context.Context, key value.RatingKey) (*entity.TourRating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rating, ok := r.s.ratings[key]
	if !ok {
		return nil, ratingNotFound(key)
	}

	rating = cloneRating(rating)

	return &rating, nil
}

func (r *RatingRepository) Modify(
	_ context.Context,
	key value.RatingKey,
	fn func(*entity.TourRating) error,
) (*entity.TourRating, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.ratings[key]
	if !ok {
		return nil, ratingNotFound(key)
	}

	rating := cloneRating(stored)
	if err := fn(&rating); err != nil {
		return nil, err
	}

	rating.Key = key
	r.s.ratings[key] = cloneRating(rating)

	return &rating, nil
}

func (r *RatingRepository) Delete(_ context.Context, key value.RatingKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ratings[key]; !ok {
		return ratingNotFound(key)
	}

	delete(r.s.ratings, key)

	return nil
}

func (r *RatingRepository) ListByTour(_ context.Context, tourID int64) ([]entity.TourRating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ratings := r.s.tourRatings(tourID)
	sortRatings(ratings, value.DefaultSort())

	return ratings, nil
}

func (r *RatingRepository) PageByTour(
	_ context.Context,
	tourID int64,
	req value.PageRequest,
) (value.Page[entity.TourRating], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ratings := r.s.tourRatings(tourID)
	sortRatings(ratings, req.Sort)

	return value.Window(ratings, req), nil
}

func (r *RatingRepository) Average(_ context.Context, tourID int64) (entity.Average, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ratings := r.s.tourRatings(tourID)
	if len(ratings) == 0 {
		return entity.Average{}, nil
	}

	sum := lo.SumBy(ratings, func(r entity.TourRating) int { return r.Score })

	return entity.Average{
		Value: float64(sum) / float64(len(ratings)),
		Count: int64(len(ratings)),
	}, nil
}

// checkInsert expects the write lock to be held.
func (s *Store) checkInsert(key value.RatingKey, pending map[value.RatingKey]struct{}) error {
	if _, ok := s.tours[key.TourID]; !ok {
		return tourNotFound(key.TourID)
	}

	_, taken := s.ratings[key]
	if _, dup := pending[key]; taken || dup {
		return domain.NewAlreadyExistsError(
			errcodes.TourRatingAlreadyExists,
			fmt.Sprintf("rating for %s already exists", key),
		)
	}

	return nil
}

func (s *Store) tourRatings(tourID int64) []entity.TourRating {
	ratings := make([]entity.TourRating, 0)

	for key, rating := range s.ratings {
		if key.TourID == tourID {
			ratings = append(ratings, cloneRating(rating))
		}
	}

	return ratings
}

func sortRatings(ratings []entity.TourRating, sort value.Sort) {
	slices.SortFunc(ratings, func(a, b entity.TourRating) int {
		var c int

		switch sort.Field {
		case value.SortByScore:
			c = cmp.Compare(a.Score, b.Score)
		case value.SortByCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		default:
			c = cmp.Compare(a.Key.CustomerID, b.Key.CustomerID)
		}

		if sort.Desc {
			c = -c
		}

		if c == 0 {
			c = cmp.Compare(a.Key.CustomerID, b.Key.CustomerID)
		}

		return c
	})
}

func ratingNotFound(key value.RatingKey) error {
	return domain.NewNotFoundError(errcodes.TourRatingNotFound, fmt.Sprintf("rating for %s does not exist", key))
}
