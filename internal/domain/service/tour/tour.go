package tour

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"explore_tours/internal/domain"
	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
	"explore_tours/pkg/errcodes"
	"explore_tours/pkg/logx"
	"explore_tours/pkg/lox"
)

const (
	packageCacheTTL     = 30 * time.Minute
	packageCacheCleanup = time.Hour
	packageListKey      = "packages"
)

type TourRepository interface {
	Create(ctx context.Context, draft entity.TourDraft) (*entity.Tour, error)
	CreateBatch(ctx context.Context, drafts []entity.TourDraft) ([]*entity.Tour, error)
	Get(ctx context.Context, id int64) (*entity.Tour, error)
	List(ctx context.Context, filter entity.TourFilter, req value.PageRequest) (value.Page[entity.Tour], error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type PackageRepository interface {
	Seed(ctx context.Context, packages []entity.TourPackage) error
	List(ctx context.Context) ([]entity.TourPackage, error)
	Get(ctx context.Context, code string) (*entity.TourPackage, error)
}

type Service struct {
	tours        TourRepository
	packages     PackageRepository
	packageCache *cache.Cache
}

func NewService(tours TourRepository, packages PackageRepository) *Service {
	return &Service{
		tours:        tours,
		packages:     packages,
		packageCache: cache.New(packageCacheTTL, packageCacheCleanup),
	}
}

// WithPackageCacheTTL replaces the package cache. Zero TTL keeps entries forever.
func (s *Service) WithPackageCacheTTL(ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = cache.NoExpiration
	}

	s.packageCache = cache.New(ttl, packageCacheCleanup)

	return s
}

func (s *Service) CreateTour(ctx context.Context, draft entity.TourDraft) (*entity.Tour, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	pkg, err := s.GetPackage(ctx, draft.PackageCode)
	if err != nil {
		return nil, err
	}

	draft.PackageCode = pkg.Code

	t, err := s.tours.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("tours.Create: %w", err)
	}

	logger(ctx).Info("tour created", logx.FieldTourID, t.ID, logx.FieldPackageCode, t.PackageCode)

	return t, nil
}

func (s *Service) GetTour(ctx context.Context, id int64) (*entity.Tour, error) {
	t, err := s.tours.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("tours.Get: %w", err)
	}

	return t, nil
}

func (s *Service) ListTours(ctx context.Context, filter entity.TourFilter, req value.PageRequest) (value.Page[entity.Tour], error) {
	if filter.PackageCode != "" {
		pkg, err := s.GetPackage(ctx, filter.PackageCode)
		if err != nil {
			return value.Page[entity.Tour]{}, err
		}

		filter.PackageCode = pkg.Code
	}

	page, err := s.tours.List(ctx, filter, req)
	if err != nil {
		return value.Page[entity.Tour]{}, fmt.Errorf("tours.List: %w", err)
	}

	return page, nil
}

// DeleteTour удаляет тур вместе с оценками.
func (s *Service) DeleteTour(ctx context.Context, id int64) error {
	if err := s.tours.Delete(ctx, id); err != nil {
		return fmt.Errorf("tours.Delete: %w", err)
	}

	logger(ctx).Info("tour deleted", logx.FieldTourID, id)

	return nil
}

func (s *Service) CountTours(ctx context.Context) (int64, error) {
	n, err := s.tours.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("tours.Count: %w", err)
	}

	return n, nil
}

func (s *Service) ListPackages(ctx context.Context) ([]entity.TourPackage, error) {
	if cached, ok := s.packageCache.Get(packageListKey); ok {
		return slices.Clone(cached.([]entity.TourPackage)), nil //nolint:forcetypeassert
	}

	packages, err := s.packages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("packages.List: %w", err)
	}

	s.packageCache.SetDefault(packageListKey, slices.Clone(packages))

	return packages, nil
}

// GetPackage ищет пакет по коду без учёта регистра.
func (s *Service) GetPackage(ctx context.Context, code string) (*entity.TourPackage, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.NewValidationError(errcodes.ValidationError, "package code is required")
	}

	key := "package:" + code
	if cached, ok := s.packageCache.Get(key); ok {
		pkg := cached.(entity.TourPackage) //nolint:forcetypeassert
		return &pkg, nil
	}

	pkg, err := s.packages.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("packages.Get: %w", err)
	}

	s.packageCache.SetDefault(key, *pkg)

	return pkg, nil
}

// SeedPackages добавляет недостающие пакеты. Существующие не трогает.
func (s *Service) SeedPackages(ctx context.Context, packages []entity.TourPackage) error {
	if err := s.packages.Seed(ctx, packages); err != nil {
		return fmt.Errorf("packages.Seed: %w", err)
	}

	s.packageCache.Flush()

	logger(ctx).Info("tour packages seeded", "count", len(packages))

	return nil
}

// ImportTours конвертирует и сохраняет seed-записи одним батчем. Первая битая
// запись прерывает импорт.
func (s *Service) ImportTours(ctx context.Context, seeds []entity.TourSeed) (int, error) {
	packages, err := s.ListPackages(ctx)
	if err != nil {
		return 0, err
	}

	resolve := packageResolver(packages)

	drafts, err := lox.MapErr(seeds, func(seed entity.TourSeed) (entity.TourDraft, error) {
		return draftFromSeed(seed, resolve)
	})
	if err != nil {
		return 0, domain.NewValidationError(errcodes.InvalidSeed, "invalid seed tour: "+err.Error())
	}

	if len(drafts) == 0 {
		return 0, nil
	}

	created, err := s.tours.CreateBatch(ctx, drafts)
	if err != nil {
		return 0, fmt.Errorf("tours.CreateBatch: %w", err)
	}

	logger(ctx).Info("tours imported", "count", len(created))

	return len(created), nil
}

// ImportIfEmpty импортирует seed только в пустой каталог, чтобы рестарты не
// дублировали туры.
func (s *Service) ImportIfEmpty(ctx context.Context, load func(ctx context.Context) ([]entity.TourSeed, error)) (int, error) {
	n, err := s.CountTours(ctx)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		logger(ctx).Info("tour import skipped", "existing", n)
		return 0, nil
	}

	seeds, err := load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load seed tours: %w", err)
	}

	return s.ImportTours(ctx, seeds)
}

// packageResolver ищет packageType сначала среди кодов, потом среди названий.
func packageResolver(packages []entity.TourPackage) func(string) (string, bool) {
	byCode := make(map[string]string, len(packages))
	byName := make(map[string]string, len(packages))

	for _, p := range packages {
		byCode[strings.ToUpper(p.Code)] = p.Code
		byName[strings.ToLower(p.Name)] = p.Code
	}

	return func(ref string) (string, bool) {
		ref = strings.TrimSpace(ref)

		if code, ok := byCode[strings.ToUpper(ref)]; ok {
			return code, true
		}

		code, ok := byName[strings.ToLower(ref)]

		return code, ok
	}
}

func draftFromSeed(seed entity.TourSeed, resolve func(string) (string, bool)) (entity.TourDraft, error) {
	price, err := strconv.Atoi(strings.TrimSpace(seed.Price))
	if err != nil {
		return entity.TourDraft{}, domain.NewValidationError(errcodes.InvalidPrice, fmt.Sprintf("invalid price %q", seed.Price))
	}

	difficulty, err := value.ParseDifficulty(seed.Difficulty)
	if err != nil {
		return entity.TourDraft{}, err
	}

	region, err := value.RegionByLabel(seed.Region)
	if err != nil {
		return entity.TourDraft{}, err
	}

	code, ok := resolve(seed.PackageType)
	if !ok {
		return entity.TourDraft{}, domain.NewNotFoundError(
			errcodes.TourPackageNotFound,
			fmt.Sprintf("unknown tour package %q", seed.PackageType),
		)
	}

	draft := entity.TourDraft{
		Title:       seed.Title,
		Description: seed.Description,
		Blurb:       seed.Blurb,
		Price:       price,
		Duration:    seed.Length,
		Bullets:     seed.Bullets,
		Keywords:    seed.Keywords,
		PackageCode: code,
		Difficulty:  difficulty,
		Region:      region,
	}

	return draft, validateDraft(draft)
}

func validateDraft(d entity.TourDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return domain.NewValidationError(errcodes.InvalidTour, "tour title is required")
	}

	if d.Price < 0 {
		return domain.NewValidationError(errcodes.InvalidPrice, fmt.Sprintf("price must not be negative, got %d", d.Price))
	}

	if _, err := value.ParseDifficulty(string(d.Difficulty)); err != nil {
		return err
	}

	if _, err := value.RegionByLabel(string(d.Region)); err != nil {
		return err
	}

	return nil
}
