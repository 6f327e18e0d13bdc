package value

import (
	"fmt"
	"strings"

	"explore_tours/internal/domain"
	"explore_tours/pkg/errcodes"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type SortField string

const (
	SortByCustomerID SortField = "customerId"
	SortByScore      SortField = "score"
	SortByCreatedAt  SortField = "createdAt"
)

//nolint:gochecknoglobals
var sortFields = map[string]SortField{
	strings.ToLower(string(SortByCustomerID)): SortByCustomerID,
	strings.ToLower(string(SortByScore)):      SortByScore,
	strings.ToLower(string(SortByCreatedAt)):  SortByCreatedAt,
}

type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort orders ratings by customer id ascending.
func DefaultSort() Sort {
	return Sort{Field: SortByCustomerID}
}

// ParseSort reads "field[,asc|desc]". An empty string yields DefaultSort.
func ParseSort(raw string) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort(), nil
	}

	name, dir, _ := strings.Cut(raw, ",")

	field, ok := sortFields[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Sort{}, domain.NewValidationError(errcodes.InvalidSort, fmt.Sprintf("unknown sort field %q", name))
	}

	s := Sort{Field: field}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
	case "desc":
		s.Desc = true
	default:
		return Sort{}, domain.NewValidationError(errcodes.InvalidSort, fmt.Sprintf("unknown sort direction %q", dir))
	}

	return s, nil
}

func (s Sort) String() string {
	if s.Desc {
		return string(s.Field) + ",desc"
	}

	return string(s.Field) + ",asc"
}

// PageRequest is a 0-based page window.
type PageRequest struct {
	Page int
	Size int
	Sort Sort
}

func NewPageRequest(page, size int, sort Sort) (PageRequest, error) {
	if size == 0 {
		size = DefaultPageSize
	}

	if page < 0 {
		return PageRequest{}, domain.NewValidationError(errcodes.InvalidPaging, "page must not be negative")
	}

	if size < 1 || size > MaxPageSize {
		return PageRequest{}, domain.NewValidationError(
			errcodes.InvalidPaging,
			fmt.Sprintf("size must be between 1 and %d", MaxPageSize),
		)
	}

	if sort.Field == "" {
		sort = DefaultSort()
	}

	return PageRequest{Page: page, Size: size, Sort: sort}, nil
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one window of a larger ordered result.
type Page[T any] struct {
	Items         []T
	Page          int
	Size          int
	TotalElements int64
}

func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	return Page[T]{
		Items:         items,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
	}
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}

	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

// Window slices an already ordered in-memory result.
func Window[T any](all []T, req PageRequest) Page[T] {
	from := min(req.Offset(), len(all))
	to := min(from+req.Size, len(all))

	return NewPage(all[from:to], req, int64(len(all)))
}
