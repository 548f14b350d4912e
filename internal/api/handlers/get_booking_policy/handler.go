package get_booking_policy

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
)

type Handler struct {
	policies PolicyProvider
	logger   Logger
}

func NewHandler(policies PolicyProvider, logger Logger) *Handler {
	return &Handler{
		policies: policies,
		logger:   logger,
	}
}

// Handle GET /api/v1/booking-policy
// Публичный endpoint - без авторизации
// Если настройки недоступны, возвращаются значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	policy := h.policies.GetPolicy(r.Context())

	h.logger.Info("GET /booking-policy - Policy retrieved: allow_online_booking=%t", policy.AllowOnlineBooking)
	handlers.RespondJSON(w, http.StatusOK, FromDomainPolicy(policy))
}
