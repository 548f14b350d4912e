package cancel_booking

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// CancellationWindowResponse отказ в отмене внутри окна бесплатной отмены
type CancellationWindowResponse struct {
	Code              string `json:"code"`
	Reason            string `json:"reason"`
	HoursRemaining    int    `json:"hoursRemaining"`
	CancellationHours int    `json:"cancellationHours"`
}

const codeCancellationWindow = "cancellation_window"

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(actor models.Actor) *models.CancelBookingRequest {
	reason := ""
	if r.CancellationReason != nil {
		reason = *r.CancellationReason
	}

	return &models.CancelBookingRequest{
		Actor:              actor,
		CancellationReason: reason,
	}
}
