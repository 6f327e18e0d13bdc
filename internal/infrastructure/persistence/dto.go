package persistence

import (
	"database/sql"
	"time"

	"explore_tours/internal/domain/entity"
	"explore_tours/internal/domain/value"
)

// tourSchema описывает строку таблицы tours.
type tourSchema struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Blurb       string `db:"blurb"`
	Price       int    `db:"price"`
	Duration    string `db:"duration"`
	Bullets     string `db:"bullets"`
	Keywords    string `db:"keywords"`
	PackageCode string `db:"package_code"`
	Difficulty  string `db:"difficulty"`
	Region      string `db:"region"`
}

func (s *tourSchema) toDomain() entity.Tour {
	return entity.Tour{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Blurb:       s.Blurb,
		Price:       s.Price,
		Duration:    s.Duration,
		Bullets:     s.Bullets,
		Keywords:    s.Keywords,
		PackageCode: s.PackageCode,
		Difficulty:  value.Difficulty(s.Difficulty),
		Region:      value.Region(s.Region),
	}
}

func newTourSchema(d entity.TourDraft) tourSchema {
	return tourSchema{
		Title:       d.Title,
		Description: d.Description,
		Blurb:       d.Blurb,
		Price:       d.Price,
		Duration:    d.Duration,
		Bullets:     d.Bullets,
		Keywords:    d.Keywords,
		PackageCode: d.PackageCode,
		Difficulty:  string(d.Difficulty),
		Region:      string(d.Region),
	}
}

type packageSchema struct {
	Code string `db:"code"`
	Name string `db:"name"`
}

func (s *packageSchema) toDomain() entity.TourPackage {
	return entity.TourPackage{Code: s.Code, Name: s.Name}
}

// ratingSchema описывает строку таблицы tour_ratings.
type ratingSchema struct {
	TourID     int64          `db:"tour_id"`
	CustomerID int64          `db:"customer_id"`
	Score      int            `db:"score"`
	Comment    sql.NullString `db:"comment"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (s *ratingSchema) toDomain() entity.TourRating {
	r := entity.TourRating{
		Key:       value.NewRatingKey(s.TourID, s.CustomerID),
		Score:     s.Score,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	if s.Comment.Valid {
		comment := s.Comment.String
		r.Comment = &comment
	}

	return r
}

func newRatingSchema(r *entity.TourRating) ratingSchema {
	s := ratingSchema{
		TourID:     r.Key.TourID,
		CustomerID: r.Key.CustomerID,
		Score:      r.Score,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}

	if r.Comment != nil {
		s.Comment = sql.NullString{String: *r.Comment, Valid: true}
	}

	return s
}
