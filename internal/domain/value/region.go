package value

import (
	"fmt"
	"strings"

	"explore_tours/internal/domain"
	"explore_tours/pkg/errcodes"
)

// Region is stored and exchanged by its label.
type Region string

const (
	RegionCentralCoast       Region = "Central Coast"
	RegionSouthernCalifornia Region = "Southern California"
	RegionNorthernCalifornia Region = "Northern California"
	RegionVaries             Region = "Varies"
)

//nolint:gochecknoglobals
var regionsByLabel = map[string]Region{
	strings.ToLower(string(RegionCentralCoast)):       RegionCentralCoast,
	strings.ToLower(string(RegionSouthernCalifornia)): RegionSouthernCalifornia,
	strings.ToLower(string(RegionNorthernCalifornia)): RegionNorthernCalifornia,
	strings.ToLower(string(RegionVaries)):             RegionVaries,
}

func RegionByLabel(label string) (Region, error) {
	r, ok := regionsByLabel[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", domain.NewValidationError(
			errcodes.InvalidRegion,
			fmt.Sprintf("unknown region label %q", label),
		)
	}

	return r, nil
}

func (r Region) String() string {
	return string(r)
}
