package send_reminder

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/reminders"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgNotRemindable    = "для бронирования в этом статусе напоминание не отправляется"
	msgDeliveryFailed   = "не удалось отправить напоминание"
)

type Handler struct {
	service ReminderService
	logger  Logger
}

func NewHandler(service ReminderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/reminders/{bookingId}/send
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /admin/reminders/{id}/send - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	if err := h.service.SendManualReminder(r.Context(), bookingID); err != nil {
		switch {
		case errors.Is(err, reminders.ErrBookingNotFound):
			h.logger.Warn("POST /admin/reminders/{id}/send - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reminders.ErrNotRemindable):
			h.logger.Warn("POST /admin/reminders/{id}/send - Not remindable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotRemindable)

		case errors.Is(err, reminders.ErrDelivery):
			h.logger.Warn("POST /admin/reminders/{id}/send - Delivery failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgDeliveryFailed)

		default:
			h.logger.Error("POST /admin/reminders/{id}/send - Failed to send reminder: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/reminders/{id}/send - Reminder sent: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
