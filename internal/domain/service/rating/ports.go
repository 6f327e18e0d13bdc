package rating

import (
	"context"

	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
)

type TourRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// RatingRepository stores ratings. Create and CreateBatch report a taken key
// as TourRatingAlreadyExists and an unknown tour as TourNotFound. Modify runs
// fn on the locked row and stores the result.
type RatingRepository interface {
	Create(ctx context.Context, rating *entity.TourRating) error
	CreateBatch(ctx context.Context, ratings []*entity.TourRating) error
	Get(ctx context.Context, key value.RatingKey) (*entity.TourRating, error)
	Modify(ctx context.Context, key value.RatingKey, fn func(*entity.TourRating) error) (*entity.TourRating, error)
	Delete(ctx context.Context, key value.RatingKey) error
	ListByTour(ctx context.Context, tourID int64) ([]entity.TourRating, error)
	PageByTour(ctx context.Context, tourID int64, req value.PageRequest) (value.Page[entity.TourRating], error)
	Average(ctx context.Context, tourID int64) (entity.Average, error)
}

// AverageCache keeps one average per tour next to a version counter.
// Invalidate drops the entry and bumps the version. Store writes the average
// only while the version still equals the one read before it was computed,
// and reports whether it did.
type AverageCache interface {
	Get(ctx context.Context, tourID int64) (entity.Average, bool, error)
	Version(ctx context.Context, tourID int64) (int64, error)
	Store(ctx context.Context, tourID, version int64, avg entity.Average) (bool, error)
	Invalidate(ctx context.Context, tourID int64) error
}

type RefreshScheduler interface {
	ScheduleAverageRefresh(ctx context.Context, tourID int64) error
}

type Recorder interface {
	RatingsWritten(op string, n int)
	AverageCacheLookup(hit bool)
}

type nopCache struct{}

func (nopCache) Get(context.Context, int64) (entity.Average, bool, error) {
	return entity.Average{}, false, nil
}
func (nopCache) Version(context.Context, int64) (int64, error) { return 0, nil }
func (nopCache) Store(context.Context, int64, int64, entity.Average) (bool, error) {
	return false, nil
}
func (nopCache) Invalidate(context.Context, int64) error { return nil }

type nopScheduler struct{}

func (nopScheduler) ScheduleAverageRefresh(context.Context, int64) error { return nil }

type nopRecorder struct{}

func (nopRecorder) RatingsWritten(string, int) {}
func (nopRecorder) AverageCacheLookup(bool)    {}
