package entity

import (
	"time"

	"explore_tours/internal/domain/value"
)

type TourRating struct {
	Key       value.RatingKey
	Score     int
	Comment   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingPatch carries the fields of a partial update. Nil means "keep".
type RatingPatch struct {
	Score   *int
	Comment *string
}

func (p RatingPatch) Apply(r *TourRating) {
	if p.Score != nil {
		r.Score = *p.Score
	}

	if p.Comment != nil {
		r.Comment = p.Comment
	}
}

// Average is the mean score of a tour. Count == 0 means there is nothing to
// average and Value is meaningless.
type Average struct {
	Value float64
	Count int64
}

func (a Average) Empty() bool {
	return a.Count == 0
}
