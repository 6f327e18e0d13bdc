package tour_test

import (
	"context"
	"errors"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"explore_tours/internal/domain"
	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/service/tour"
	"explore_tours/internal/domain/value"
	"explore_tours/internal/infrastructure/memstore"
	"explore_tours/pkg/errcodes"
)

// countingPackages counts lookups that reach the repository.
type countingPackages struct {
	tour.PackageRepository
	gets  int
	lists int
}

func (p *countingPackages) Get(ctx context.Context, code string) (*entity.TourPackage, error) {
	p.gets++
	return p.PackageRepository.Get(ctx, code)
}

func (p *countingPackages) List(ctx context.Context) ([]entity.TourPackage, error) {
	p.lists++
	return p.PackageRepository.List(ctx)
}

func newService(t *testing.T) (*tour.Service, *countingPackages) {
	t.Helper()

	store := memstore.New()
	packages := &countingPackages{PackageRepository: store.Packages()}
	svc := tour.NewService(store.Tours(), packages)

	require.NoError(t, svc.SeedPackages(context.Background(), entity.DefaultTourPackages()))

	return svc, packages
}

func draft() entity.TourDraft {
	return entity.TourDraft{
		Title:       "Big Sur Retreat",
		Price:       750,
		Duration:    "3 days",
		PackageCode: "bc",
		Difficulty:  value.DifficultyMedium,
		Region:      value.RegionCentralCoast,
	}
}

func TestCreateTour(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.CreateTour(ctx, draft())
	rq.NoError(err)
	rq.Equal("BC", created.PackageCode)

	got, err := svc.GetTour(ctx, created.ID)
	rq.NoError(err)
	rq.Equal(created, got)

	d := draft()
	d.PackageCode = "XX"
	_, err = svc.CreateTour(ctx, d)
	rq.True(domain.HasCode(err, errcodes.TourPackageNotFound))

	d = draft()
	d.Title = " "
	_, err = svc.CreateTour(ctx, d)
	rq.True(domain.HasCode(err, errcodes.InvalidTour))

	d = draft()
	d.Region = "Atlantis"
	_, err = svc.CreateTour(ctx, d)
	rq.True(domain.HasCode(err, errcodes.InvalidRegion))
}

func TestListAndDeleteTours(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	svc, _ := newService(t)

	for _, code := range []string{"BC", "CC", "BC"} {
		d := draft()
		d.PackageCode = code
		_, err := svc.CreateTour(ctx, d)
		rq.NoError(err)
	}

	req, err := value.NewPageRequest(0, 20, value.Sort{})
	rq.NoError(err)

	page, err := svc.ListTours(ctx, entity.TourFilter{PackageCode: "bc"}, req)
	rq.NoError(err)
	rq.Equal(int64(2), page.TotalElements)

	_, err = svc.ListTours(ctx, entity.TourFilter{PackageCode: "ZZ"}, req)
	rq.True(failure.IsNotFoundError(err))

	rq.NoError(svc.DeleteTour(ctx, 1))
	rq.True(domain.HasCode(svc.DeleteTour(ctx, 1), errcodes.TourNotFound))

	n, err := svc.CountTours(ctx)
	rq.NoError(err)
	rq.Equal(int64(2), n)
}

func TestPackagesAreCached(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	svc, packages := newService(t)

	for range 3 {
		pkg, err := svc.GetPackage(ctx, "NW")
		rq.NoError(err)
		rq.Equal("Nature Watch", pkg.Name)

		all, err := svc.ListPackages(ctx)
		rq.NoError(err)
		rq.Len(all, 9)
	}

	rq.Equal(1, packages.gets)
	rq.Equal(1, packages.lists)

	_, err := svc.GetPackage(ctx, "")
	rq.True(failure.IsInvalidArgumentError(err))
}

func TestListPackagesReturnsCopy(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	svc, _ := newService(t)

	first, err := svc.ListPackages(ctx)
	rq.NoError(err)
	first[0].Name = "changed"

	cached, err := svc.ListPackages(ctx)
	rq.NoError(err)
	cached[1].Name = "changed too"

	again, err := svc.ListPackages(ctx)
	rq.NoError(err)
	rq.Equal("Backpack Cal", again[0].Name)
	rq.Equal("California Calm", again[1].Name)
}

func seeds() []entity.TourSeed {
	return []entity.TourSeed{
		{
			Title:       "Big Sur Retreat",
			Price:       "750",
			Length:      "3 days",
			PackageType: "Backpack Cal",
			Difficulty:  "Medium",
			Region:      "Central Coast",
		},
		{
			Title:       "In the Steps of John Muir",
			Price:       "600",
			Length:      "3 days",
			PackageType: "CC",
			Difficulty:  "Easy",
			Region:      "Northern California",
		},
	}
}

func TestImportTours(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	svc, _ := newService(t)

	n, err := svc.ImportTours(ctx, seeds())
	rq.NoError(err)
	rq.Equal(2, n)

	req, err := value.NewPageRequest(0, 20, value.Sort{})
	rq.NoError(err)

	page, err := svc.ListTours(ctx, entity.TourFilter{}, req)
	rq.NoError(err)
	rq.Equal("BC", page.Items[0].PackageCode)
	rq.Equal(750, page.Items[0].Price)
	rq.Equal(value.DifficultyEasy, page.Items[1].Difficulty)
}

func TestImportToursRejectsBadRecord(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entity.TourSeed)
	}{
		{name: "price", mutate: func(s *entity.TourSeed) { s.Price = "cheap" }},
		{name: "difficulty", mutate: func(s *entity.TourSeed) { s.Difficulty = "Extreme" }},
		{name: "region", mutate: func(s *entity.TourSeed) { s.Region = "Atlantis" }},
		{name: "package", mutate: func(s *entity.TourSeed) { s.PackageType = "Moon Walk" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)
			ctx := context.Background()
			svc, _ := newService(t)

			records := seeds()
			tt.mutate(&records[1])

			_, err := svc.ImportTours(ctx, records)
			rq.True(domain.HasCode(err, errcodes.InvalidSeed))
			rq.Contains(failure.Description(err), "item 1")

			n, err := svc.CountTours(ctx)
			rq.NoError(err)
			rq.Zero(n)
		})
	}
}

func TestImportIfEmpty(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	svc, _ := newService(t)

	loads := 0
	load := func(context.Context) ([]entity.TourSeed, error) {
		loads++
		return seeds(), nil
	}

	n, err := svc.ImportIfEmpty(ctx, load)
	rq.NoError(err)
	rq.Equal(2, n)

	n, err = svc.ImportIfEmpty(ctx, load)
	rq.NoError(err)
	rq.Zero(n)
	rq.Equal(1, loads)

	svc, _ = newService(t)
	_, err = svc.ImportIfEmpty(ctx, func(context.Context) ([]entity.TourSeed, error) {
		return nil, errors.New("no such file")
	})
	rq.ErrorContains(err, "no such file")
}
