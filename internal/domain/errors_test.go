package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"explore_tours/internal/domain"
	"explore_tours/pkg/errcodes"
)

func TestErrors(t *testing.T) {
	rq := require.New(t)

	notFound := fmt.Errorf("verifyTour: %w", domain.NewNotFoundError(errcodes.TourNotFound, "tour 7 does not exist"))
	rq.True(failure.IsNotFoundError(notFound))
	rq.True(domain.HasCode(notFound, errcodes.TourNotFound))
	rq.False(domain.HasCode(notFound, errcodes.TourRatingNotFound))
	rq.Equal("tour 7 does not exist", failure.Description(notFound))

	exists := domain.NewAlreadyExistsError(errcodes.TourRatingAlreadyExists, "duplicate")
	rq.True(failure.IsConflictError(exists))

	invalid := domain.NewValidationError(errcodes.InvalidScore, "score out of range")
	rq.True(failure.IsInvalidArgumentError(invalid))

	rq.False(domain.HasCode(nil, errcodes.TourNotFound))
	rq.False(domain.HasCode(errors.New("plain"), errcodes.TourNotFound))
}
