package validate_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	validateBooking "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/validate_booking"
)

type Validator interface {
	Validate(ctx context.Context, req *domain.BookingRequest, now time.Time) (*validateBooking.Decision, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
