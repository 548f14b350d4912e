package get_booked_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/bookings"
)

const (
	msgInvalidStaffID = "некорректный ID специалиста"
	msgMissingDate    = "дата обязательна"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	service  BookingService
	location *time.Location
	logger   Logger
}

func NewHandler(service BookingService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/booked-slots
// Query params: date (required, YYYY-MM-DD)
// Публичный endpoint - отдает только интервалы, без данных клиентов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/booked-slots - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /staff/{id}/booked-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := handlers.ParseDate(dateStr, h.location)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/booked-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetBookedSlots(r.Context(), staffID, date)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /staff/{id}/booked-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStaffID)
			return
		}
		h.logger.Error("GET /staff/{id}/booked-slots - Failed to get booked slots: staff_id=%d, error=%v", staffID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /staff/{id}/booked-slots - Booked slots retrieved: staff_id=%d, count=%d",
		staffID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
