package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"explore_tours/internal/domain"
	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
	"explore_tours/pkg/errcodes"
)

const ratingColumns = `tour_id, customer_id, score, comment, created_at, updated_at`

//nolint:gochecknoglobals
var ratingOrderColumns = map[value.SortField]string{
	value.SortByCustomerID: "customer_id",
	value.SortByScore:      "score",
	value.SortByCreatedAt:  "created_at",
}

type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating *entity.TourRating) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return r.createTx(ctx, tx, rating)
	})
}

// CreateBatch сохраняет все оценки атомарно.
func (r *RatingRepository) CreateBatch(ctx context.Context, ratings []*entity.TourRating) error {
	if len(ratings) == 0 {
		return nil
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for i, rating := range ratings {
			if err := r.createTx(ctx, tx, rating); err != nil {
				return fmt.Errorf("failed at index %d: %w", i, err)
			}
		}

		return nil
	})
}

func (r *RatingRepository) Get(ctx context.Context, key value.RatingKey) (*entity.TourRating, error) {
	query := `SELECT ` + ratingColumns + ` FROM tour_ratings WHERE tour_id = $1 AND customer_id = $2`

	var schema ratingSchema
	if err := r.db.GetContext(ctx, &schema, query, key.TourID, key.CustomerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ratingNotFound(key)
		}

		return nil, fmt.Errorf("db.GetContext(rating): %w", err)
	}

	rating := schema.toDomain()

	return &rating, nil
}

// Modify блокирует строку, применяет fn и записывает score, comment и updated_at.
func (r *RatingRepository) Modify(
	ctx context.Context,
	key value.RatingKey,
	fn func(*entity.TourRating) error,
) (*entity.TourRating, error) {
	var updated entity.TourRating

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `SELECT ` + ratingColumns + `
			FROM tour_ratings
			WHERE tour_id = $1 AND customer_id = $2
			FOR UPDATE`

		var schema ratingSchema
		if err := tx.GetContext(ctx, &schema, query, key.TourID, key.CustomerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ratingNotFound(key)
			}

			return fmt.Errorf("tx.GetContext(lock rating): %w", err)
		}

		updated = schema.toDomain()
		if err := fn(&updated); err != nil {
			return err
		}

		updated.Key = key
		row := newRatingSchema(&updated)

		updateQuery := `
			UPDATE tour_ratings
			SET score = :score, comment = :comment, updated_at = :updated_at
			WHERE tour_id = :tour_id AND customer_id = :customer_id`

		if _, err := tx.NamedExecContext(ctx, updateQuery, row); err != nil {
			return fmt.Errorf("tx.NamedExecContext(update rating): %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *RatingRepository) Delete(ctx context.Context, key value.RatingKey) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tour_ratings WHERE tour_id = $1 AND customer_id = $2`,
		key.TourID, key.CustomerID,
	)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete rating): %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("res.RowsAffected: %w", err)
	}

	if rows == 0 {
		return ratingNotFound(key)
	}

	return nil
}

func (r *RatingRepository) ListByTour(ctx context.Context, tourID int64) ([]entity.TourRating, error) {
	query := `SELECT ` + ratingColumns + ` FROM tour_ratings WHERE tour_id = $1 ORDER BY customer_id`

	var schemas []ratingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, tourID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(ratings): %w", err)
	}

	return toRatings(schemas), nil
}

func (r *RatingRepository) PageByTour(
	ctx context.Context,
	tourID int64,
	req value.PageRequest,
) (value.Page[entity.TourRating], error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM tour_ratings WHERE tour_id = $1`, tourID); err != nil {
		return value.Page[entity.TourRating]{}, fmt.Errorf("db.GetContext(count ratings): %w", err)
	}

	query := `SELECT ` + ratingColumns + ` FROM tour_ratings WHERE tour_id = $1 ORDER BY ` +
		orderBy(req.Sort) + ` LIMIT $2 OFFSET $3`

	var schemas []ratingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, tourID, req.Size, req.Offset()); err != nil {
		return value.Page[entity.TourRating]{}, fmt.Errorf("db.SelectContext(ratings page): %w", err)
	}

	return value.NewPage(toRatings(schemas), req, total), nil
}

func (r *RatingRepository) Average(ctx context.Context, tourID int64) (entity.Average, error) {
	query := `SELECT COALESCE(AVG(score), 0) AS value, count(*) AS count FROM tour_ratings WHERE tour_id = $1`

	var row struct {
		Value float64 `db:"value"`
		Count int64   `db:"count"`
	}

	if err := r.db.GetContext(ctx, &row, query, tourID); err != nil {
		return entity.Average{}, fmt.Errorf("db.GetContext(average): %w", err)
	}

	return entity.Average{Value: row.Value, Count: row.Count}, nil
}

func (r *RatingRepository) createTx(ctx context.Context, tx *sqlx.Tx, rating *entity.TourRating) error {
	query := `
		INSERT INTO tour_ratings (tour_id, customer_id, score, comment, created_at, updated_at)
		VALUES (:tour_id, :customer_id, :score, :comment, :created_at, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, query, newRatingSchema(rating)); err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return domain.NewAlreadyExistsError(
				errcodes.TourRatingAlreadyExists,
				fmt.Sprintf("rating for %s already exists", rating.Key),
			)
		case pgForeignKeyViolation:
			return tourNotFound(rating.Key.TourID)
		}

		return fmt.Errorf("tx.NamedExecContext(insert rating): %w", err)
	}

	return nil
}

// orderBy собирает ORDER BY только из разрешённых колонок.
func orderBy(s value.Sort) string {
	column, ok := ratingOrderColumns[s.Field]
	if !ok {
		column = "customer_id"
	}

	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}

	if column == "customer_id" {
		return column + " " + dir
	}

	return column + " " + dir + ", customer_id ASC"
}

func toRatings(schemas []ratingSchema) []entity.TourRating {
	return lo.Map(schemas, func(s ratingSchema, _ int) entity.TourRating {
		return s.toDomain()
	})
}

func ratingNotFound(key value.RatingKey) error {
	return domain.NewNotFoundError(errcodes.TourRatingNotFound, fmt.Sprintf("rating for %s does not exist", key))
}
