package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	AccessTokenExpired  failure.ErrorCode = "AccessTokenExpired"
	AccessTokenInvalid  failure.ErrorCode = "AccessTokenInvalid"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"
	InvalidSort         failure.ErrorCode = "InvalidSort"

	// Tours and packages
	TourNotFound        failure.ErrorCode = "TourNotFound"
	TourPackageNotFound failure.ErrorCode = "TourPackageNotFound"
	InvalidTourID       failure.ErrorCode = "InvalidTourID"
	InvalidTour         failure.ErrorCode = "InvalidTour"
	InvalidDifficulty   failure.ErrorCode = "InvalidDifficulty"
	InvalidRegion       failure.ErrorCode = "InvalidRegion"
	InvalidPrice        failure.ErrorCode = "InvalidPrice"
	InvalidSeed         failure.ErrorCode = "InvalidSeed"

	// Ratings
	TourRatingNotFound      failure.ErrorCode = "TourRatingNotFound"
	TourRatingAlreadyExists failure.ErrorCode = "TourRatingAlreadyExists"
	InvalidCustomerID       failure.ErrorCode = "InvalidCustomerID"
	InvalidScore            failure.ErrorCode = "InvalidScore"
)
