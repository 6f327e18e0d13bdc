package value

import (
	"fmt"

	"explore_tours/internal/domain"
	"explore_tours/pkg/errcodes"
)

const (
	MinScore = 1
	MaxScore = 5
)

func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return domain.NewValidationError(
			errcodes.InvalidScore,
			fmt.Sprintf("score must be between %d and %d, got %d", MinScore, MaxScore, score),
		)
	}

	return nil
}
