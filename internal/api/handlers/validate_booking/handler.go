package validate_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	validateBooking "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/validate_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	validator Validator
	location  *time.Location
	now       func() time.Time
	logger    Logger
}

func NewHandler(validator Validator, location *time.Location, logger Logger) *Handler {
	return &Handler{
		validator: validator,
		location:  location,
		now:       time.Now,
		logger:    logger,
	}
}

// Handle POST /api/v1/bookings/validate
// Только решение, бронирование не создается. Отказ возвращается со статусом 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ValidateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	domainReq, err := req.ToDomainRequest(0, h.location)
	if err != nil {
		h.logger.Warn("POST /bookings/validate - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	decision, err := h.validator.Validate(r.Context(), domainReq, h.now())
	if err != nil {
		if errors.Is(err, validateBooking.ErrInvalidInput) {
			h.logger.Warn("POST /bookings/validate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("POST /bookings/validate - Failed to validate: service_id=%d, staff_id=%d, error=%v",
			req.ServiceID, req.StaffID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /bookings/validate - Decision: service_id=%d, staff_id=%d, code=%s",
		req.ServiceID, req.StaffID, decision.Code)
	handlers.RespondJSON(w, http.StatusOK, FromDecision(decision))
}
