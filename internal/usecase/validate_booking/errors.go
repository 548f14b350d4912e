package validate_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("validate_booking: invalid input data")

	// ErrInternal возвращается, когда недоступен источник данных
	ErrInternal = errors.New("validate_booking: internal error")
)
