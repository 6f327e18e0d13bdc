package entity

// TourPackage groups tours. Packages are seeded once and read-only afterwards.
type TourPackage struct {
	Code string
	Name string
}

func DefaultTourPackages() []TourPackage {
	return []TourPackage{
		{Code: "BC", Name: "Backpack Cal"},
		{Code: "CC", Name: "California Calm"},
		{Code: "CH", Name: "California Hot springs"},
		{Code: "CY", Name: "Cycle California"},
		{Code: "DS", Name: "From Desert to Sea"},
		{Code: "KC", Name: "Kids California"},
		{Code: "NW", Name: "Nature Watch"},
		{Code: "SC", Name: "Snowboard Cali"},
		{Code: "TC", Name: "Taste of California"},
	}
}
