package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"explore_tours/internal/domain"
	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
	"explore_tours/pkg/errcodes"
	"explore_tours/pkg/httpx/reply"
	"explore_tours/pkg/httpx/req"
	"explore_tours/pkg/rest"
)

type tourService interface {
	CreateTour(ctx context.Context, draft entity.TourDraft) (*entity.Tour, error)
	GetTour(ctx context.Context, id int64) (*entity.Tour, error)
	ListTours(ctx context.Context, filter entity.TourFilter, req value.PageRequest) (value.Page[entity.Tour], error)
	DeleteTour(ctx context.Context, id int64) error
	ListPackages(ctx context.Context) ([]entity.TourPackage, error)
	GetPackage(ctx context.Context, code string) (*entity.TourPackage, error)
}

type TourServer struct {
	tourService tourService
}

func NewTourServer(tourService tourService) TourServer {
	return TourServer{tourService: tourService}
}

func (s TourServer) getTours(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	// Туры всегда сортируются по id.
	if req.Has(r, "sort") {
		return domain.NewValidationError(errcodes.InvalidSort, "tours do not support sort")
	}

	pageRequest, err := readPaging(r, value.Sort{})
	if err != nil {
		return err
	}

	filter := entity.TourFilter{PackageCode: r.URL.Query().Get("package")}

	page, err := s.tourService.ListTours(ctx, filter, pageRequest)
	if err != nil {
		return fmt.Errorf("tourService.ListTours: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPage(page, newRESTTour))

	return nil
}

func (s TourServer) getTour(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := req.PathInt64(r, "tourId", errcodes.InvalidTourID)
	if err != nil {
		return err
	}

	t, err := s.tourService.GetTour(ctx, id)
	if err != nil {
		return fmt.Errorf("tourService.GetTour: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTour(*t))

	return nil
}

func (s TourServer) postTour(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateTourRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	draft, err := newDomainTourDraft(request)
	if err != nil {
		return fmt.Errorf("newDomainTourDraft: %w", err)
	}

	created, err := s.tourService.CreateTour(ctx, draft)
	if err != nil {
		return fmt.Errorf("tourService.CreateTour: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTTour(*created))

	return nil
}

func (s TourServer) deleteTour(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := req.PathInt64(r, "tourId", errcodes.InvalidTourID)
	if err != nil {
		return err
	}

	if err := s.tourService.DeleteTour(ctx, id); err != nil {
		return fmt.Errorf("tourService.DeleteTour: %w", err)
	}

	reply.NoContent(w)

	return nil
}

func (s TourServer) getPackages(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	packages, err := s.tourService.ListPackages(ctx)
	if err != nil {
		return fmt.Errorf("tourService.ListPackages: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lo.Map(packages, func(p entity.TourPackage, _ int) rest.TourPackage {
		return newRESTPackage(p)
	}))

	return nil
}

func (s TourServer) getPackage(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	pkg, err := s.tourService.GetPackage(ctx, chi.URLParam(r, "code"))
	if err != nil {
		return fmt.Errorf("tourService.GetPackage: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPackage(*pkg))

	return nil
}
