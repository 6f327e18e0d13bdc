package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"explore_tours/internal/domain/entity"
)

type PackageRepository struct {
	db *sqlx.DB
}

func NewPackageRepository(db *sqlx.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// Seed добавляет пакеты, код которых ещё не занят.
func (r *PackageRepository) Seed(ctx context.Context, packages []entity.TourPackage) error {
	if len(packages) == 0 {
		return nil
	}

	query := `INSERT INTO tour_packages (code, name) VALUES (:code, :name) ON CONFLICT (code) DO NOTHING`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, p := range packages {
			if _, err := tx.NamedExecContext(ctx, query, packageSchema{Code: p.Code, Name: p.Name}); err != nil {
				return fmt.Errorf("tx.NamedExecContext(seed package %s): %w", p.Code, err)
			}
		}

		return nil
	})
}

func (r *PackageRepository) List(ctx context.Context) ([]entity.TourPackage, error) {
	var schemas []packageSchema
	if err := r.db.SelectContext(ctx, &schemas, `SELECT code, name FROM tour_packages ORDER BY code`); err != nil {
		return nil, fmt.Errorf("db.SelectContext(packages): %w", err)
	}

	return lo.Map(schemas, func(s packageSchema, _ int) entity.TourPackage {
		return s.toDomain()
	}), nil
}

func (r *PackageRepository) Get(ctx context.Context, code string) (*entity.TourPackage, error) {
	var schema packageSchema
	if err := r.db.GetContext(ctx, &schema, `SELECT code, name FROM tour_packages WHERE code = $1`, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, packageNotFound(code)
		}

		return nil, fmt.Errorf("db.GetContext(package): %w", err)
	}

	p := schema.toDomain()

	return &p, nil
}
