package rating

import (
	"context"
	"fmt"
	"time"

	"explore_tours/internal/domain"
	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
	"explore_tours/pkg/errcodes"
	"explore_tours/pkg/logx"
)

const (
	OpCreate = "create"
	OpBulk   = "bulk"
	OpPut    = "put"
	OpPatch  = "patch"
	OpDelete = "delete"
)

type Service struct {
	tours     TourRepository
	ratings   RatingRepository
	cache     AverageCache
	scheduler RefreshScheduler
	recorder  Recorder
	now       func() time.Time
}

func NewService(tours TourRepository, ratings RatingRepository) *Service {
	return &Service{
		tours:     tours,
		ratings:   ratings,
		cache:     nopCache{},
		scheduler: nopScheduler{},
		recorder:  nopRecorder{},
		now:       time.Now,
	}
}

func (s *Service) WithAverageCache(c AverageCache) *Service {
	s.cache = c
	return s
}

func (s *Service) WithRefreshScheduler(sch RefreshScheduler) *Service {
	s.scheduler = sch
	return s
}

func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, key value.RatingKey, score int, comment *string) (*entity.TourRating, error) {
	if err := validateCustomer(key.CustomerID); err != nil {
		return nil, err
	}

	if err := value.ValidateScore(score); err != nil {
		return nil, err
	}

	if err := s.verifyTour(ctx, key.TourID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rating := &entity.TourRating{
		Key:       key,
		Score:     score,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, fmt.Errorf("ratings.Create: %w", err)
	}

	s.afterWrite(ctx, key.TourID, OpCreate, 1)

	return rating, nil
}

// UpdateFull перезаписывает оценку и комментарий. nil очищает комментарий.
func (s *Service) UpdateFull(ctx context.Context, key value.RatingKey, score int, comment *string) (*entity.TourRating, error) {
	if err := validateCustomer(key.CustomerID); err != nil {
		return nil, err
	}

	if err := value.ValidateScore(score); err != nil {
		return nil, err
	}

	updated, err := s.ratings.Modify(ctx, key, func(r *entity.TourRating) error {
		r.Score = score
		r.Comment = comment
		r.UpdatedAt = s.now().UTC()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ratings.Modify: %w", err)
	}

	s.afterWrite(ctx, key.TourID, OpPut, 1)

	return updated, nil
}

// UpdatePartial меняет только переданные поля.
func (s *Service) UpdatePartial(ctx context.Context, key value.RatingKey, patch entity.RatingPatch) (*entity.TourRating, error) {
	if err := validateCustomer(key.CustomerID); err != nil {
		return nil, err
	}

	if patch.Score != nil {
		if err := value.ValidateScore(*patch.Score); err != nil {
			return nil, err
		}
	}

	updated, err := s.ratings.Modify(ctx, key, func(r *entity.TourRating) error {
		patch.Apply(r)
		r.UpdatedAt = s.now().UTC()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ratings.Modify: %w", err)
	}

	s.afterWrite(ctx, key.TourID, OpPatch, 1)

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, key value.RatingKey) error {
	if err := s.ratings.Delete(ctx, key); err != nil {
		return fmt.Errorf("ratings.Delete: %w", err)
	}

	s.afterWrite(ctx, key.TourID, OpDelete, 1)

	return nil
}

// Average читает среднюю через кэш. Тур без оценок даёт пустой Average, а не
// ошибку.
func (s *Service) Average(ctx context.Context, tourID int64) (entity.Average, error) {
	if err := s.verifyTour(ctx, tourID); err != nil {
		return entity.Average{}, err
	}

	cached, ok, err := s.cache.Get(ctx, tourID)
	if err != nil {
		logger(ctx).Warn("average cache lookup failed", logx.FieldTourID, tourID, logx.Error(err))
	}

	s.recorder.AverageCacheLookup(ok)

	if ok {
		return cached, nil
	}

	return s.computeAverage(ctx, tourID)
}

// RefreshAverage пересчитывает закэшированную среднюю тура.
func (s *Service) RefreshAverage(ctx context.Context, tourID int64) error {
	if err := s.verifyTour(ctx, tourID); err != nil {
		return err
	}

	_, err := s.computeAverage(ctx, tourID)

	return err
}

func (s *Service) List(ctx context.Context, tourID int64, req value.PageRequest) (value.Page[entity.TourRating], error) {
	if err := s.verifyTour(ctx, tourID); err != nil {
		return value.Page[entity.TourRating]{}, err
	}

	page, err := s.ratings.PageByTour(ctx, tourID, req)
	if err != nil {
		return value.Page[entity.TourRating]{}, fmt.Errorf("ratings.PageByTour: %w", err)
	}

	return page, nil
}

func (s *Service) ListAll(ctx context.Context, tourID int64) ([]entity.TourRating, error) {
	if err := s.verifyTour(ctx, tourID); err != nil {
		return nil, err
	}

	ratings, err := s.ratings.ListByTour(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("ratings.ListByTour: %w", err)
	}

	return ratings, nil
}

// BulkCreate ставит всем клиентам одинаковую оценку. Сохраняются либо все
// оценки, либо ни одной.
func (s *Service) BulkCreate(ctx context.Context, tourID int64, score int, customerIDs []int64) ([]*entity.TourRating, error) {
	if len(customerIDs) == 0 {
		return nil, domain.NewValidationError(errcodes.ValidationError, "at least one customer is required")
	}

	for _, id := range customerIDs {
		if err := validateCustomer(id); err != nil {
			return nil, err
		}
	}

	if err := value.ValidateScore(score); err != nil {
		return nil, err
	}

	if err := s.verifyTour(ctx, tourID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ratings := make([]*entity.TourRating, 0, len(customerIDs))

	for _, id := range customerIDs {
		ratings = append(ratings, &entity.TourRating{
			Key:       value.NewRatingKey(tourID, id),
			Score:     score,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.ratings.CreateBatch(ctx, ratings); err != nil {
		return nil, fmt.Errorf("ratings.CreateBatch: %w", err)
	}

	s.afterWrite(ctx, tourID, OpBulk, len(ratings))

	return ratings, nil
}

func (s *Service) verifyTour(ctx context.Context, tourID int64) error {
	exists, err := s.tours.Exists(ctx, tourID)
	if err != nil {
		return fmt.Errorf("tours.Exists: %w", err)
	}

	if !exists {
		return domain.NewNotFoundError(errcodes.TourNotFound, fmt.Sprintf("tour %d does not exist", tourID))
	}

	return nil
}

// computeAverage читает версию кэша до агрегата: запись, закоммиченная между
// ними, поднимает версию, и устаревший результат не сохраняется.
func (s *Service) computeAverage(ctx context.Context, tourID int64) (entity.Average, error) {
	version, versionErr := s.cache.Version(ctx, tourID)
	if versionErr != nil {
		logger(ctx).Warn("average cache version lookup failed", logx.FieldTourID, tourID, logx.Error(versionErr))
	}

	avg, err := s.ratings.Average(ctx, tourID)
	if err != nil {
		return entity.Average{}, fmt.Errorf("ratings.Average: %w", err)
	}

	if versionErr != nil {
		return avg, nil
	}

	stored, err := s.cache.Store(ctx, tourID, version, avg)
	if err != nil {
		logger(ctx).Warn("average cache store failed", logx.FieldTourID, tourID, logx.Error(err))
	} else if !stored {
		logger(ctx).Debug("average changed while computing, cache left empty", logx.FieldTourID, tourID)
	}

	return avg, nil
}

// afterWrite никогда не роняет запрос.
func (s *Service) afterWrite(ctx context.Context, tourID int64, op string, n int) {
	s.recorder.RatingsWritten(op, n)

	if err := s.cache.Invalidate(ctx, tourID); err != nil {
		logger(ctx).Warn("average cache invalidation failed", logx.FieldTourID, tourID, logx.Error(err))
	}

	if err := s.scheduler.ScheduleAverageRefresh(ctx, tourID); err != nil {
		logger(ctx).Warn("average refresh scheduling failed", logx.FieldTourID, tourID, logx.Error(err))
	}
}

func validateCustomer(id int64) error {
	if id <= 0 {
		return domain.NewValidationError(errcodes.InvalidCustomerID, fmt.Sprintf("invalid customer id %d", id))
	}

	return nil
}
