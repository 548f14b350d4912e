package get_booking_policy

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

type PolicyProvider interface {
	GetPolicy(ctx context.Context) domain.BookingPolicy
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
