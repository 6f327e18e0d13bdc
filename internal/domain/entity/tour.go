package entity

import "explore_tours/internal/domain/value"

type Tour struct {
	ID          int64
	Title       string
	Description string
	Blurb       string
	Price       int
	Duration    string
	Bullets     string
	Keywords    string
	PackageCode string
	Difficulty  value.Difficulty
	Region      value.Region
}

// TourDraft is a tour not yet stored. The package is referenced by code.
type TourDraft struct {
	Title       string
	Description string
	Blurb       string
	Price       int
	Duration    string
	Bullets     string
	Keywords    string
	PackageCode string
	Difficulty  value.Difficulty
	Region      value.Region
}

// TourSeed is one record of the seed file. Price is a numeric string and
// packageType holds a package name or code.
type TourSeed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Blurb       string `json:"blurb"`
	Price       string `json:"price"`
	Length      string `json:"length"`
	Bullets     string `json:"bullets"`
	Keywords    string `json:"keywords"`
	PackageType string `json:"packageType"`
	Difficulty  string `json:"difficulty"`
	Region      string `json:"region"`
}

type TourFilter struct {
	PackageCode string
}
