package domain

import (
	"git.appkode.ru/pub/go/failure"
)

// NewNotFoundError сообщает об отсутствии тура, пакета или оценки.
func NewNotFoundError(code failure.ErrorCode, message string) error {
	return failure.NewNotFoundError(
		message,
		failure.WithCode(code),
		failure.WithDescription(message),
	)
}

// NewAlreadyExistsError сообщает о нарушении уникальности.
func NewAlreadyExistsError(code failure.ErrorCode, message string) error {
	return failure.NewConflictError(
		message,
		failure.WithCode(code),
		failure.WithDescription(message),
	)
}

func NewValidationError(code failure.ErrorCode, message string) error {
	return failure.NewInvalidArgumentError(
		message,
		failure.WithCode(code),
		failure.WithDescription(message),
	)
}

// HasCode reports whether err, or an error it wraps, carries code.
func HasCode(err error, code failure.ErrorCode) bool {
	return err != nil && failure.Code(err) == code
}

func NewUnauthorizedError(code failure.ErrorCode, message string) error {
	return failure.NewUnauthorizedError(
		message,
		failure.WithCode(code),
		failure.WithDescription(message),
	)
}

func NewForbiddenError(code failure.ErrorCode, message string) error {
	return failure.NewForbiddenError(
		message,
		failure.WithCode(code),
		failure.WithDescription(message),
	)
}
