package memstore

import (
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"

	"explore_tours/internal/domain/entity"
)

type PackageRepository struct {
	s *Store
}

func (r *PackageRepository) Seed(_ context.Context, packages []entity.TourPackage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range packages {
		if _, ok := r.s.packages[p.Code]; !ok {
			r.s.packages[p.Code] = p
		}
	}

	return nil
}

func (r *PackageRepository) List(_ context.Context) ([]entity.TourPackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	packages := lo.Values(r.s.packages)
	slices.SortFunc(packages, func(a, b entity.TourPackage) int {
		return strings.Compare(a.Code, b.Code)
	})

	return packages, nil
}

func (r *PackageRepository) Get(_ context.Context, code string) (*entity.TourPackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.packages[code]
	if !ok {
		return nil, packageNotFound(code)
	}

	return &p, nil
}
