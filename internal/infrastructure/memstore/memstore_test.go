package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"explore_tours/internal/domain"
	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
	"explore_tours/internal/infrastructure/memstore"
	"explore_tours/pkg/errcodes"
)

func newStoreWithTour(t *testing.T) (*memstore.Store, *entity.Tour) {
	t.Helper()

	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.Packages().Seed(ctx, entity.DefaultTourPackages()))

	tour, err := store.Tours().Create(ctx, entity.TourDraft{
		Title:       "Big Sur Retreat",
		Price:       750,
		PackageCode: "BC",
		Difficulty:  value.DifficultyMedium,
		Region:      value.RegionCentralCoast,
	})
	require.NoError(t, err)

	return store, tour
}

func TestTourRepository(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store, tour := newStoreWithTour(t)
	tours := store.Tours()

	rq.Equal(int64(1), tour.ID)

	_, err := tours.Create(ctx, entity.TourDraft{Title: "nowhere", PackageCode: "XX"})
	rq.True(domain.HasCode(err, errcodes.TourPackageNotFound))

	created, err := tours.CreateBatch(ctx, []entity.TourDraft{
		{Title: "a", PackageCode: "CC"},
		{Title: "b", PackageCode: "BC"},
	})
	rq.NoError(err)
	rq.Len(created, 2)

	n, err := tours.Count(ctx)
	rq.NoError(err)
	rq.Equal(int64(3), n)

	req, err := value.NewPageRequest(0, 10, value.Sort{})
	rq.NoError(err)

	page, err := tours.List(ctx, entity.TourFilter{PackageCode: "BC"}, req)
	rq.NoError(err)
	rq.Equal(int64(2), page.TotalElements)
	rq.Equal([]int64{1, 3}, lo.Map(page.Items, func(t entity.Tour, _ int) int64 { return t.ID }))

	rq.NoError(tours.Delete(ctx, 1))
	rq.True(domain.HasCode(tours.Delete(ctx, 1), errcodes.TourNotFound))

	_, err = tours.Get(ctx, 1)
	rq.True(domain.HasCode(err, errcodes.TourNotFound))
}

func TestPackageRepositorySeedIsIdempotent(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	packages := memstore.New().Packages()

	rq.NoError(packages.Seed(ctx, entity.DefaultTourPackages()))
	rq.NoError(packages.Seed(ctx, []entity.TourPackage{{Code: "BC", Name: "renamed"}}))

	all, err := packages.List(ctx)
	rq.NoError(err)
	rq.Len(all, 9)
	rq.Equal("BC", all[0].Code)

	bc, err := packages.Get(ctx, "BC")
	rq.NoError(err)
	rq.Equal("Backpack Cal", bc.Name)

	_, err = packages.Get(ctx, "ZZ")
	rq.True(domain.HasCode(err, errcodes.TourPackageNotFound))
}

func TestRatingRepository(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store, tour := newStoreWithTour(t)
	ratings := store.Ratings()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	key := value.NewRatingKey(tour.ID, 1)
	rq.NoError(ratings.Create(ctx, &entity.TourRating{Key: key, Score: 4, CreatedAt: now}))

	err := ratings.Create(ctx, &entity.TourRating{Key: key, Score: 2})
	rq.True(domain.HasCode(err, errcodes.TourRatingAlreadyExists))

	err = ratings.Create(ctx, &entity.TourRating{Key: value.NewRatingKey(99, 1), Score: 2})
	rq.True(domain.HasCode(err, errcodes.TourNotFound))

	err = ratings.CreateBatch(ctx, []*entity.TourRating{
		{Key: value.NewRatingKey(tour.ID, 2), Score: 5},
		{Key: key, Score: 5},
	})
	rq.True(domain.HasCode(err, errcodes.TourRatingAlreadyExists))

	_, err = ratings.Get(ctx, value.NewRatingKey(tour.ID, 2))
	rq.True(domain.HasCode(err, errcodes.TourRatingNotFound))

	rq.NoError(ratings.CreateBatch(ctx, []*entity.TourRating{
		{Key: value.NewRatingKey(tour.ID, 2), Score: 2, CreatedAt: now.Add(time.Hour)},
	}))

	avg, err := ratings.Average(ctx, tour.ID)
	rq.NoError(err)
	rq.Equal(entity.Average{Value: 3, Count: 2}, avg)

	updated, err := ratings.Modify(ctx, key, func(r *entity.TourRating) error {
		r.Comment = lo.ToPtr("great")
		return nil
	})
	rq.NoError(err)
	rq.Equal(4, updated.Score)
	rq.Equal("great", *updated.Comment)

	req, err := value.NewPageRequest(0, 1, value.Sort{Field: value.SortByScore, Desc: true})
	rq.NoError(err)

	page, err := ratings.PageByTour(ctx, tour.ID, req)
	rq.NoError(err)
	rq.Equal(2, page.TotalPages())
	rq.Equal(int64(1), page.Items[0].Key.CustomerID)

	rq.NoError(store.Tours().Delete(ctx, tour.ID))

	all, err := ratings.ListByTour(ctx, tour.ID)
	rq.NoError(err)
	rq.Empty(all)
}
