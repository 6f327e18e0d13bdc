package value_test

import (
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"explore_tours/internal/domain"
	"explore_tours/internal/domain/value"
	"explore_tours/pkg/errcodes"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want value.Difficulty
		err  bool
	}{
		{in: "EASY", want: value.DifficultyEasy},
		{in: "medium", want: value.DifficultyMedium},
		{in: " Difficult ", want: value.DifficultyDifficult},
		{in: "Varies", want: value.DifficultyVaries},
		{in: "Extreme", err: true},
		{in: "", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rq := require.New(t)

			got, err := value.ParseDifficulty(tt.in)
			if tt.err {
				rq.True(domain.HasCode(err, errcodes.InvalidDifficulty))
				return
			}

			rq.NoError(err)
			rq.Equal(tt.want, got)
		})
	}
}

func TestRegionByLabel(t *testing.T) {
	rq := require.New(t)

	r, err := value.RegionByLabel("Central Coast")
	rq.NoError(err)
	rq.Equal(value.RegionCentralCoast, r)

	r, err = value.RegionByLabel("northern california")
	rq.NoError(err)
	rq.Equal(value.RegionNorthernCalifornia, r)

	_, err = value.RegionByLabel("Atlantis")
	rq.True(failure.IsInvalidArgumentError(err))
	rq.True(domain.HasCode(err, errcodes.InvalidRegion))
}

func TestValidateScore(t *testing.T) {
	rq := require.New(t)

	for s := value.MinScore; s <= value.MaxScore; s++ {
		rq.NoError(value.ValidateScore(s))
	}

	rq.True(domain.HasCode(value.ValidateScore(0), errcodes.InvalidScore))
	rq.True(domain.HasCode(value.ValidateScore(6), errcodes.InvalidScore))
}

func TestRatingKey(t *testing.T) {
	rq := require.New(t)

	rq.Equal(value.NewRatingKey(1, 2), value.RatingKey{TourID: 1, CustomerID: 2})
	rq.NotEqual(value.NewRatingKey(1, 2), value.NewRatingKey(2, 1))
	rq.Equal("tour 1, customer 2", value.NewRatingKey(1, 2).String())
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in   string
		want value.Sort
		err  bool
	}{
		{in: "", want: value.DefaultSort()},
		{in: "score", want: value.Sort{Field: value.SortByScore}},
		{in: "score,desc", want: value.Sort{Field: value.SortByScore, Desc: true}},
		{in: "createdAt,ASC", want: value.Sort{Field: value.SortByCreatedAt}},
		{in: "customerid", want: value.Sort{Field: value.SortByCustomerID}},
		{in: "comment", err: true},
		{in: "score,sideways", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rq := require.New(t)

			got, err := value.ParseSort(tt.in)
			if tt.err {
				rq.True(domain.HasCode(err, errcodes.InvalidSort))
				return
			}

			rq.NoError(err)
			rq.Equal(tt.want, got)
		})
	}
}

func TestPageRequest(t *testing.T) {
	rq := require.New(t)

	p, err := value.NewPageRequest(0, 0, value.Sort{})
	rq.NoError(err)
	rq.Equal(value.DefaultPageSize, p.Size)
	rq.Equal(value.DefaultSort(), p.Sort)

	p, err = value.NewPageRequest(3, 10, value.Sort{Field: value.SortByScore})
	rq.NoError(err)
	rq.Equal(30, p.Offset())

	_, err = value.NewPageRequest(-1, 10, value.Sort{})
	rq.True(domain.HasCode(err, errcodes.InvalidPaging))

	_, err = value.NewPageRequest(0, value.MaxPageSize+1, value.Sort{})
	rq.True(domain.HasCode(err, errcodes.InvalidPaging))
}

func TestWindow(t *testing.T) {
	rq := require.New(t)

	all := []int{1, 2, 3, 4, 5}

	req, err := value.NewPageRequest(1, 2, value.Sort{})
	rq.NoError(err)

	page := value.Window(all, req)
	rq.Equal([]int{3, 4}, page.Items)
	rq.Equal(int64(5), page.TotalElements)
	rq.Equal(3, page.TotalPages())

	req, err = value.NewPageRequest(9, 2, value.Sort{})
	rq.NoError(err)
	rq.Empty(value.Window(all, req).Items)
}
