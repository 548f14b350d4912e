package domain

import "errors"

var (
	// ErrConfiguration is returned for malformed service or staff schedules
	ErrConfiguration = errors.New("domain: configuration error")

	// ErrInvalidPolicy is returned when a booking policy is out of bounds
	ErrInvalidPolicy = errors.New("domain: invalid booking policy")
)
