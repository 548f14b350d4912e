package get_booking_policy

import "github.com/m04kA/SMC-ClinicBookingService/internal/domain"

// PolicyResponse действующая политика записи
type PolicyResponse struct {
	domain.BookingPolicy
	Limits string `json:"limits"`
}

// FromDomainPolicy конвертирует политику в HTTP response
func FromDomainPolicy(policy domain.BookingPolicy) *PolicyResponse {
	return &PolicyResponse{
		BookingPolicy: policy,
		Limits:        policy.LimitsMessage(),
	}
}
