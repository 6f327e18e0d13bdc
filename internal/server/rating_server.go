package server

import (
	"context"
	"fmt"
	"net/http"

	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
	"explore_tours/pkg/errcodes"
	"explore_tours/pkg/httpx/reply"
	"explore_tours/pkg/httpx/req"
	"explore_tours/pkg/rest"
)

type ratingService interface {
	Create(ctx context.Context, key value.RatingKey, score int, comment *string) (*entity.TourRating, error)
	UpdateFull(ctx context.Context, key value.RatingKey, score int, comment *string) (*entity.TourRating, error)
	UpdatePartial(ctx context.Context, key value.RatingKey, patch entity.RatingPatch) (*entity.TourRating, error)
	Delete(ctx context.Context, key value.RatingKey) error
	Average(ctx context.Context, tourID int64) (entity.Average, error)
	List(ctx context.Context, tourID int64, req value.PageRequest) (value.Page[entity.TourRating], error)
	ListAll(ctx context.Context, tourID int64) ([]entity.TourRating, error)
	BulkCreate(ctx context.Context, tourID int64, score int, customerIDs []int64) ([]*entity.TourRating, error)
}

type RatingServer struct {
	ratingService ratingService
}

func NewRatingServer(ratingService ratingService) RatingServer {
	return RatingServer{ratingService: ratingService}
}

func (s RatingServer) postRating(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	tourID, err := req.PathInt64(r, "tourId", errcodes.InvalidTourID)
	if err != nil {
		return err
	}

	var request rest.CreateRatingRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	created, err := s.ratingService.Create(ctx, value.NewRatingKey(tourID, request.CustomerID), request.Score, request.Comment)
	if err != nil {
		return fmt.Errorf("ratingService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTRating(*created))

	return nil
}

// getRatings отдаёт страницу, если передан хоть один параметр пагинации, иначе
// весь список.
func (s RatingServer) getRatings(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	tourID, err := req.PathInt64(r, "tourId", errcodes.InvalidTourID)
	if err != nil {
		return err
	}

	if !req.Has(r, "page") && !req.Has(r, "size") && !req.Has(r, "sort") {
		ratings, err := s.ratingService.ListAll(ctx, tourID)
		if err != nil {
			return fmt.Errorf("ratingService.ListAll: %w", err)
		}

		reply.JSON(ctx, w, http.StatusOK, newRESTRatings(ratings))

		return nil
	}

	pageRequest, err := readPageRequest(r)
	if err != nil {
		return err
	}

	page, err := s.ratingService.List(ctx, tourID, pageRequest)
	if err != nil {
		return fmt.Errorf("ratingService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPage(page, newRESTRating))

	return nil
}

func (s RatingServer) getAverage(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	tourID, err := req.PathInt64(r, "tourId", errcodes.InvalidTourID)
	if err != nil {
		return err
	}

	avg, err := s.ratingService.Average(ctx, tourID)
	if err != nil {
		return fmt.Errorf("ratingService.Average: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTAverage(avg))

	return nil
}

func (s RatingServer) putRating(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	tourID, err := req.PathInt64(r, "tourId", errcodes.InvalidTourID)
	if err != nil {
		return err
	}

	var request rest.PutRatingRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	updated, err := s.ratingService.UpdateFull(ctx, value.NewRatingKey(tourID, request.CustomerID), request.Score, request.Comment)
	if err != nil {
		return fmt.Errorf("ratingService.UpdateFull: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRating(*updated))

	return nil
}

func (s RatingServer) patchRating(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	tourID, err := req.PathInt64(r, "tourId", errcodes.InvalidTourID)
	if err != nil {
		return err
	}

	var request rest.PatchRatingRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	updated, err := s.ratingService.UpdatePartial(
		ctx,
		value.NewRatingKey(tourID, request.CustomerID),
		entity.RatingPatch{Score: request.Score, Comment: request.Comment},
	)
	if err != nil {
		return fmt.Errorf("ratingService.UpdatePartial: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRating(*updated))

	return nil
}

func (s RatingServer) deleteRating(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	tourID, err := req.PathInt64(r, "tourId", errcodes.InvalidTourID)
	if err != nil {
		return err
	}

	customerID, err := req.PathInt64(r, "customerId", errcodes.InvalidCustomerID)
	if err != nil {
		return err
	}

	if err := s.ratingService.Delete(ctx, value.NewRatingKey(tourID, customerID)); err != nil {
		return fmt.Errorf("ratingService.Delete: %w", err)
	}

	reply.NoContent(w)

	return nil
}

func (s RatingServer) postBulkRatings(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	tourID, err := req.PathInt64(r, "tourId", errcodes.InvalidTourID)
	if err != nil {
		return err
	}

	score, err := req.PathInt64(r, "score", errcodes.InvalidScore)
	if err != nil {
		return err
	}

	customers, err := req.QueryInt64List(r, "customers", errcodes.InvalidCustomerID)
	if err != nil {
		return err
	}

	created, err := s.ratingService.BulkCreate(ctx, tourID, int(score), customers)
	if err != nil {
		return fmt.Errorf("ratingService.BulkCreate: %w", err)
	}

	ratings := make([]rest.Rating, 0, len(created))
	for _, c := range created {
		ratings = append(ratings, newRESTRating(*c))
	}

	reply.JSON(ctx, w, http.StatusCreated, ratings)

	return nil
}

func readPageRequest(r *http.Request) (value.PageRequest, error) {
	sort, err := value.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		return value.PageRequest{}, err
	}

	return readPaging(r, sort)
}

func readPaging(r *http.Request, sort value.Sort) (value.PageRequest, error) {
	page, err := req.QueryInt(r, "page", 0, errcodes.InvalidPaging)
	if err != nil {
		return value.PageRequest{}, err
	}

	size, err := req.QueryInt(r, "size", value.DefaultPageSize, errcodes.InvalidPaging)
	if err != nil {
		return value.PageRequest{}, err
	}

	return value.NewPageRequest(page, size, sort)
}
