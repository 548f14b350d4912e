package update_booking_policy

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

type PolicyService interface {
	Update(ctx context.Context, patch domain.BookingPolicyPatch) (domain.BookingPolicy, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
