package value

import "fmt"

// RatingKey identifies a rating. A customer rates a tour at most once, so the
// pair is the primary key.
type RatingKey struct {
	TourID     int64
	CustomerID int64
}

func NewRatingKey(tourID, customerID int64) RatingKey {
	return RatingKey{TourID: tourID, CustomerID: customerID}
}

func (k RatingKey) String() string {
	return fmt.Sprintf("tour %d, customer %d", k.TourID, k.CustomerID)
}
