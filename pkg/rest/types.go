// Package rest holds the JSON contract of the HTTP API.
package rest

// Rating is a customer's rating as exchanged with clients.
type Rating struct {
	CustomerID int64   `json:"customerId"`
	Score      int     `json:"score"`
	Comment    *string `json:"comment"`
}

// CreateRatingRequest is the body of POST /tours/{tourId}/ratings.
type CreateRatingRequest struct {
	CustomerID int64   `json:"customerId" validate:"required,gt=0"`
	Score      int     `json:"score" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment" validate:"omitempty,max=255"`
}

// PutRatingRequest replaces score and comment; an absent comment clears it.
type PutRatingRequest struct {
	CustomerID int64   `json:"customerId" validate:"required,gt=0"`
	Score      int     `json:"score" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment" validate:"omitempty,max=255"`
}

// PatchRatingRequest changes only the fields present in the body.
type PatchRatingRequest struct {
	CustomerID int64   `json:"customerId" validate:"required,gt=0"`
	Score      *int    `json:"score" validate:"omitempty,min=1,max=5"`
	Comment    *string `json:"comment" validate:"omitempty,max=255"`
}

type Average struct {
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

type Page[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

type TourPackage struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Tour struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Blurb       string `json:"blurb"`
	Price       int    `json:"price"`
	Duration    string `json:"duration"`
	Bullets     string `json:"bullets"`
	Keywords    string `json:"keywords"`
	PackageCode string `json:"packageCode"`
	Difficulty  string `json:"difficulty"`
	Region      string `json:"region"`
}

type CreateTourRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Blurb       string `json:"blurb" validate:"max=2000"`
	Price       int    `json:"price" validate:"gte=0"`
	Duration    string `json:"duration" validate:"max=32"`
	Bullets     string `json:"bullets" validate:"max=2000"`
	Keywords    string `json:"keywords" validate:"max=2000"`
	PackageCode string `json:"packageCode" validate:"required,max=2"`
	Difficulty  string `json:"difficulty" validate:"required"`
	Region      string `json:"region" validate:"required"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code ErrorCode `json:"code"`

	// Message is human readable and may change between releases.
	Message string `json:"message"`

	SupportID string `json:"supportId"`
}

type ErrorCode string
