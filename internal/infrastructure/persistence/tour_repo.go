package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"explore_tours/internal/domain"
	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
	"explore_tours/pkg/errcodes"
)

const tourColumns = `id, title, description, blurb, price, duration, bullets, keywords, package_code, difficulty, region`

type TourRepository struct {
	db *sqlx.DB
}

func NewTourRepository(db *sqlx.DB) *TourRepository {
	return &TourRepository{db: db}
}

func (r *TourRepository) Create(ctx context.Context, draft entity.TourDraft) (*entity.Tour, error) {
	var created *entity.Tour

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		t, err := r.createTx(ctx, tx, draft)
		created = t

		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// CreateBatch сохраняет массив туров атомарно.
func (r *TourRepository) CreateBatch(ctx context.Context, drafts []entity.TourDraft) ([]*entity.Tour, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	created := make([]*entity.Tour, 0, len(drafts))

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for i, d := range drafts {
			t, err := r.createTx(ctx, tx, d)
			if err != nil {
				return fmt.Errorf("failed at index %d: %w", i, err)
			}

			created = append(created, t)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *TourRepository) Get(ctx context.Context, id int64) (*entity.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE id = $1`

	var schema tourSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tourNotFound(id)
		}

		return nil, fmt.Errorf("db.GetContext(tour): %w", err)
	}

	t := schema.toDomain()

	return &t, nil
}

func (r *TourRepository) List(ctx context.Context, filter entity.TourFilter, req value.PageRequest) (value.Page[entity.Tour], error) {
	where, args := `WHERE ($1 = '' OR package_code = $1)`, []any{filter.PackageCode}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM tours `+where, args...); err != nil {
		return value.Page[entity.Tour]{}, fmt.Errorf("db.GetContext(count tours): %w", err)
	}

	query := `SELECT ` + tourColumns + ` FROM tours ` + where + ` ORDER BY id LIMIT $2 OFFSET $3`

	var schemas []tourSchema
	if err := r.db.SelectContext(ctx, &schemas, query, filter.PackageCode, req.Size, req.Offset()); err != nil {
		return value.Page[entity.Tour]{}, fmt.Errorf("db.SelectContext(tours): %w", err)
	}

	tours := make([]entity.Tour, 0, len(schemas))
	for _, s := range schemas {
		tours = append(tours, s.toDomain())
	}

	return value.NewPage(tours, req, total), nil
}

// Delete удаляет тур вместе с его оценками (ON DELETE CASCADE).
func (r *TourRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete tour): %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("res.RowsAffected: %w", err)
	}

	if rows == 0 {
		return tourNotFound(id)
	}

	return nil
}

func (r *TourRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM tours`); err != nil {
		return 0, fmt.Errorf("db.GetContext(count): %w", err)
	}

	return n, nil
}

func (r *TourRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tours WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("db.GetContext(exists): %w", err)
	}

	return exists, nil
}

func (r *TourRepository) createTx(ctx context.Context, tx *sqlx.Tx, draft entity.TourDraft) (*entity.Tour, error) {
	query := `
		INSERT INTO tours (title, description, blurb, price, duration, bullets, keywords, package_code, difficulty, region)
		VALUES (:title, :description, :blurb, :price, :duration, :bullets, :keywords, :package_code, :difficulty, :region)
		RETURNING id`

	stmt, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("tx.PrepareNamedContext(insert tour): %w", err)
	}
	defer stmt.Close()

	schema := newTourSchema(draft)

	if err := stmt.GetContext(ctx, &schema.ID, schema); err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return nil, packageNotFound(draft.PackageCode)
		}

		return nil, fmt.Errorf("stmt.GetContext(insert tour): %w", err)
	}

	t := schema.toDomain()

	return &t, nil
}

func tourNotFound(id int64) error {
	return domain.NewNotFoundError(errcodes.TourNotFound, fmt.Sprintf("tour %d does not exist", id))
}

func packageNotFound(code string) error {
	return domain.NewNotFoundError(errcodes.TourPackageNotFound, fmt.Sprintf("tour package %q does not exist", code))
}
