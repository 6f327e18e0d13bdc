package server

import (
	"github.com/samber/lo"

	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
	"explore_tours/pkg/rest"
)

func newRESTRating(r entity.TourRating) rest.Rating {
	return rest.Rating{
		CustomerID: r.Key.CustomerID,
		Score:      r.Score,
		Comment:    r.Comment,
	}
}

func newRESTRatings(ratings []entity.TourRating) []rest.Rating {
	return lo.Map(ratings, func(r entity.TourRating, _ int) rest.Rating {
		return newRESTRating(r)
	})
}

func newRESTAverage(avg entity.Average) rest.Average {
	if avg.Empty() {
		return rest.Average{Average: nil, Count: 0}
	}

	return rest.Average{Average: lo.ToPtr(avg.Value), Count: int(avg.Count)}
}

func newRESTTour(t entity.Tour) rest.Tour {
	return rest.Tour{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Blurb:       t.Blurb,
		Price:       t.Price,
		Duration:    t.Duration,
		Bullets:     t.Bullets,
		Keywords:    t.Keywords,
		PackageCode: t.PackageCode,
		Difficulty:  t.Difficulty.String(),
		Region:      t.Region.String(),
	}
}

func newRESTPackage(p entity.TourPackage) rest.TourPackage {
	return rest.TourPackage{Code: p.Code, Name: p.Name}
}

func newRESTPage[T, R any](page value.Page[T], convert func(T) R) rest.Page[R] {
	return rest.Page[R]{
		Content: lo.Map(page.Items, func(item T, _ int) R {
			return convert(item)
		}),
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: int(page.TotalElements),
		TotalPages:    page.TotalPages(),
	}
}

func newDomainTourDraft(request rest.CreateTourRequest) (entity.TourDraft, error) {
	difficulty, err := value.ParseDifficulty(request.Difficulty)
	if err != nil {
		return entity.TourDraft{}, err
	}

	region, err := value.RegionByLabel(request.Region)
	if err != nil {
		return entity.TourDraft{}, err
	}

	return entity.TourDraft{
		Title:       request.Title,
		Description: request.Description,
		Blurb:       request.Blurb,
		Price:       request.Price,
		Duration:    request.Duration,
		Bullets:     request.Bullets,
		Keywords:    request.Keywords,
		PackageCode: request.PackageCode,
		Difficulty:  difficulty,
		Region:      region,
	}, nil
}
