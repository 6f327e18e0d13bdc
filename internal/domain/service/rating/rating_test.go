package rating_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"explore_tours/internal/domain"
	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/service/rating"
	"explore_tours/internal/domain/value"
	"explore_tours/internal/infrastructure/memstore"
	"explore_tours/pkg/errcodes"
)

type fakeCache struct {
	mu          sync.Mutex
	values      map[int64]entity.Average
	versions    map[int64]int64
	invalidated []int64
	failGet     bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		values:   make(map[int64]entity.Average),
		versions: make(map[int64]int64),
	}
}

func (c *fakeCache) Get(_ context.Context, tourID int64) (entity.Average, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failGet {
		return entity.Average{}, false, errors.New("connection refused")
	}

	avg, ok := c.values[tourID]

	return avg, ok, nil
}

func (c *fakeCache) Version(_ context.Context, tourID int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.versions[tourID], nil
}

func (c *fakeCache) Store(_ context.Context, tourID, version int64, avg entity.Average) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.versions[tourID] != version {
		return false, nil
	}

	c.values[tourID] = avg

	return true, nil
}

func (c *fakeCache) Invalidate(_ context.Context, tourID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.values, tourID)
	c.versions[tourID]++
	c.invalidated = append(c.invalidated, tourID)

	return nil
}

// pausingRatings holds the first Average call after the aggregate is read
// until release is closed.
type pausingRatings struct {
	rating.RatingRepository
	read    chan struct{}
	release chan struct{}
	paused  atomic.Bool
}

func newPausingRatings() *pausingRatings {
	return &pausingRatings{read: make(chan struct{}), release: make(chan struct{})}
}

func (r *pausingRatings) Average(ctx context.Context, tourID int64) (entity.Average, error) {
	avg, err := r.RatingRepository.Average(ctx, tourID)

	if r.paused.CompareAndSwap(false, true) {
		close(r.read)
		<-r.release
	}

	return avg, err
}

type fakeScheduler struct {
	scheduled []int64
	err       error
}

func (s *fakeScheduler) ScheduleAverageRefresh(_ context.Context, tourID int64) error {
	s.scheduled = append(s.scheduled, tourID)
	return s.err
}

type fakeRecorder struct {
	written map[string]int
	hits    int
	misses  int
}

func (r *fakeRecorder) RatingsWritten(op string, n int) {
	r.written[op] += n
}

func (r *fakeRecorder) AverageCacheLookup(hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

type fixture struct {
	svc       *rating.Service
	cache     *fakeCache
	scheduler *fakeScheduler
	recorder  *fakeRecorder
	tourID    int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixtureWithRatings(t, nil)
}

// newFixtureWithRatings lets wrap decorate the rating repository. nil keeps
// the memory store as is.
func newFixtureWithRatings(t *testing.T, wrap func(rating.RatingRepository) rating.RatingRepository) *fixture {
	t.Helper()

	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.Packages().Seed(ctx, entity.DefaultTourPackages()))

	tour, err := store.Tours().Create(ctx, entity.TourDraft{
		Title:       "Big Sur Retreat",
		PackageCode: "BC",
		Difficulty:  value.DifficultyMedium,
		Region:      value.RegionCentralCoast,
	})
	require.NoError(t, err)

	f := &fixture{
		cache:     newFakeCache(),
		scheduler: &fakeScheduler{},
		recorder:  &fakeRecorder{written: make(map[string]int)},
		tourID:    tour.ID,
	}

	var ratings rating.RatingRepository = store.Ratings()
	if wrap != nil {
		ratings = wrap(ratings)
	}

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc = rating.NewService(store.Tours(), ratings).
		WithAverageCache(f.cache).
		WithRefreshScheduler(f.scheduler).
		WithRecorder(f.recorder).
		WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		})

	return f
}

func TestCreate(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, value.NewRatingKey(f.tourID, 1), 4, lo.ToPtr("nice"))
	rq.NoError(err)
	rq.Equal(4, created.Score)
	rq.Equal("nice", *created.Comment)
	rq.False(created.CreatedAt.IsZero())

	_, err = f.svc.Create(ctx, value.NewRatingKey(f.tourID, 1), 2, nil)
	rq.True(domain.HasCode(err, errcodes.TourRatingAlreadyExists))

	_, err = f.svc.Create(ctx, value.NewRatingKey(42, 1), 2, nil)
	rq.True(domain.HasCode(err, errcodes.TourNotFound))

	_, err = f.svc.Create(ctx, value.NewRatingKey(f.tourID, 2), 9, nil)
	rq.True(domain.HasCode(err, errcodes.InvalidScore))

	_, err = f.svc.Create(ctx, value.NewRatingKey(f.tourID, 0), 3, nil)
	rq.True(domain.HasCode(err, errcodes.InvalidCustomerID))

	rq.Equal(1, f.recorder.written[rating.OpCreate])
	rq.Equal([]int64{f.tourID}, f.scheduler.scheduled)
	rq.Equal([]int64{f.tourID}, f.cache.invalidated)
}

func TestAverage(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	avg, err := f.svc.Average(ctx, f.tourID)
	rq.NoError(err)
	rq.True(avg.Empty())

	_, err = f.svc.Create(ctx, value.NewRatingKey(f.tourID, 1), 4, nil)
	rq.NoError(err)
	_, err = f.svc.Create(ctx, value.NewRatingKey(f.tourID, 2), 2, nil)
	rq.NoError(err)

	avg, err = f.svc.Average(ctx, f.tourID)
	rq.NoError(err)
	rq.Equal(entity.Average{Value: 3, Count: 2}, avg)

	avg, err = f.svc.Average(ctx, f.tourID)
	rq.NoError(err)
	rq.Equal(entity.Average{Value: 3, Count: 2}, avg)
	rq.Equal(1, f.recorder.hits)

	_, err = f.svc.BulkCreate(ctx, f.tourID, 5, []int64{3, 4})
	rq.NoError(err)

	avg, err = f.svc.Average(ctx, f.tourID)
	rq.NoError(err)
	rq.Equal(entity.Average{Value: 4, Count: 4}, avg)

	_, err = f.svc.Average(ctx, 42)
	rq.True(domain.HasCode(err, errcodes.TourNotFound))
}

func TestAverageCacheFailureFallsBackToStore(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, value.NewRatingKey(f.tourID, 1), 5, nil)
	rq.NoError(err)

	f.cache.failGet = true

	avg, err := f.svc.Average(ctx, f.tourID)
	rq.NoError(err)
	rq.Equal(entity.Average{Value: 5, Count: 1}, avg)
}

func TestSchedulerFailureDoesNotFailWrite(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	f.scheduler.err = errors.New("redis down")

	_, err := f.svc.Create(ctx, value.NewRatingKey(f.tourID, 1), 5, nil)
	rq.NoError(err)
}

func TestUpdateFull(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	key := value.NewRatingKey(f.tourID, 1)

	created, err := f.svc.Create(ctx, key, 4, lo.ToPtr("first"))
	rq.NoError(err)

	updated, err := f.svc.UpdateFull(ctx, key, 2, nil)
	rq.NoError(err)
	rq.Equal(2, updated.Score)
	rq.Nil(updated.Comment)
	rq.Equal(created.CreatedAt, updated.CreatedAt)
	rq.True(updated.UpdatedAt.After(created.UpdatedAt))

	_, err = f.svc.UpdateFull(ctx, value.NewRatingKey(f.tourID, 2), 2, nil)
	rq.True(domain.HasCode(err, errcodes.TourRatingNotFound))

	_, err = f.svc.UpdateFull(ctx, key, 0, nil)
	rq.True(domain.HasCode(err, errcodes.InvalidScore))
}

func TestUpdatePartial(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	key := value.NewRatingKey(f.tourID, 1)

	_, err := f.svc.Create(ctx, key, 4, lo.ToPtr("keep me"))
	rq.NoError(err)

	updated, err := f.svc.UpdatePartial(ctx, key, entity.RatingPatch{Score: lo.ToPtr(1)})
	rq.NoError(err)
	rq.Equal(1, updated.Score)
	rq.Equal("keep me", *updated.Comment)

	updated, err = f.svc.UpdatePartial(ctx, key, entity.RatingPatch{Comment: lo.ToPtr("changed")})
	rq.NoError(err)
	rq.Equal(1, updated.Score)
	rq.Equal("changed", *updated.Comment)

	_, err = f.svc.UpdatePartial(ctx, value.NewRatingKey(f.tourID, 7), entity.RatingPatch{})
	rq.True(domain.HasCode(err, errcodes.TourRatingNotFound))

	_, err = f.svc.UpdatePartial(ctx, key, entity.RatingPatch{Score: lo.ToPtr(6)})
	rq.True(domain.HasCode(err, errcodes.InvalidScore))
}

func TestDelete(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	key := value.NewRatingKey(f.tourID, 1)

	_, err := f.svc.Create(ctx, key, 3, nil)
	rq.NoError(err)
	_, err = f.svc.Create(ctx, value.NewRatingKey(f.tourID, 2), 5, nil)
	rq.NoError(err)

	avg, err := f.svc.Average(ctx, f.tourID)
	rq.NoError(err)
	rq.Equal(entity.Average{Value: 4, Count: 2}, avg)
	rq.Contains(f.cache.values, f.tourID)

	rq.NoError(f.svc.Delete(ctx, key))
	rq.True(domain.HasCode(f.svc.Delete(ctx, key), errcodes.TourRatingNotFound))

	avg, err = f.svc.Average(ctx, f.tourID)
	rq.NoError(err)
	rq.Equal(entity.Average{Value: 5, Count: 1}, avg)

	all, err := f.svc.ListAll(ctx, f.tourID)
	rq.NoError(err)
	rq.Len(all, 1)
	rq.Equal(int64(2), all[0].Key.CustomerID)
}

func TestAverageComputedBeforeDeleteIsNotCached(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	paused := newPausingRatings()
	f := newFixtureWithRatings(t, func(r rating.RatingRepository) rating.RatingRepository {
		paused.RatingRepository = r
		return paused
	})
	key := value.NewRatingKey(f.tourID, 1)

	_, err := f.svc.Create(ctx, key, 3, nil)
	rq.NoError(err)
	_, err = f.svc.Create(ctx, value.NewRatingKey(f.tourID, 2), 5, nil)
	rq.NoError(err)

	type result struct {
		avg entity.Average
		err error
	}

	inFlight := make(chan result, 1)

	go func() {
		avg, err := f.svc.Average(ctx, f.tourID)
		inFlight <- result{avg: avg, err: err}
	}()

	<-paused.read
	rq.NoError(f.svc.Delete(ctx, key))
	close(paused.release)

	res := <-inFlight
	rq.NoError(res.err)
	rq.Equal(entity.Average{Value: 4, Count: 2}, res.avg)
	rq.NotContains(f.cache.values, f.tourID)

	avg, err := f.svc.Average(ctx, f.tourID)
	rq.NoError(err)
	rq.Equal(entity.Average{Value: 5, Count: 1}, avg)
}

func TestRefreshAfterWriteIsNotCached(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	paused := newPausingRatings()
	f := newFixtureWithRatings(t, func(r rating.RatingRepository) rating.RatingRepository {
		paused.RatingRepository = r
		return paused
	})

	_, err := f.svc.Create(ctx, value.NewRatingKey(f.tourID, 1), 2, nil)
	rq.NoError(err)

	refreshed := make(chan error, 1)

	go func() { refreshed <- f.svc.RefreshAverage(ctx, f.tourID) }()

	<-paused.read
	_, err = f.svc.UpdatePartial(ctx, value.NewRatingKey(f.tourID, 1), entity.RatingPatch{Score: lo.ToPtr(4)})
	rq.NoError(err)
	close(paused.release)

	rq.NoError(<-refreshed)
	rq.NotContains(f.cache.values, f.tourID)

	avg, err := f.svc.Average(ctx, f.tourID)
	rq.NoError(err)
	rq.Equal(entity.Average{Value: 4, Count: 1}, avg)
}

func TestList(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.BulkCreate(ctx, f.tourID, 3, []int64{2, 1})
	rq.NoError(err)

	req, err := value.NewPageRequest(0, 1, value.Sort{})
	rq.NoError(err)

	page, err := f.svc.List(ctx, f.tourID, req)
	rq.NoError(err)
	rq.Equal(int64(2), page.TotalElements)
	rq.Equal(2, page.TotalPages())
	rq.Len(page.Items, 1)
	rq.Equal(int64(1), page.Items[0].Key.CustomerID)

	_, err = f.svc.List(ctx, 42, req)
	rq.True(domain.HasCode(err, errcodes.TourNotFound))

	_, err = f.svc.ListAll(ctx, 42)
	rq.True(domain.HasCode(err, errcodes.TourNotFound))
}

func TestBulkCreate(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, value.NewRatingKey(f.tourID, 2), 1, nil)
	rq.NoError(err)

	_, err = f.svc.BulkCreate(ctx, f.tourID, 5, []int64{1, 2, 3})
	rq.True(domain.HasCode(err, errcodes.TourRatingAlreadyExists))

	all, err := f.svc.ListAll(ctx, f.tourID)
	rq.NoError(err)
	rq.Len(all, 1)

	_, err = f.svc.BulkCreate(ctx, 42, 5, []int64{1})
	rq.True(domain.HasCode(err, errcodes.TourNotFound))

	_, err = f.svc.BulkCreate(ctx, f.tourID, 5, nil)
	rq.True(domain.HasCode(err, errcodes.ValidationError))

	created, err := f.svc.BulkCreate(ctx, f.tourID, 5, []int64{1, 3})
	rq.NoError(err)
	rq.Len(created, 2)
	rq.Equal(2, f.recorder.written[rating.OpBulk])
}

func TestRefreshAverage(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, value.NewRatingKey(f.tourID, 1), 4, nil)
	rq.NoError(err)
	rq.Empty(f.cache.values)

	rq.NoError(f.svc.RefreshAverage(ctx, f.tourID))
	rq.Equal(entity.Average{Value: 4, Count: 1}, f.cache.values[f.tourID])

	rq.True(domain.HasCode(f.svc.RefreshAverage(ctx, 42), errcodes.TourNotFound))
}
