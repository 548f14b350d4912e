package get_reminder_stats

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
)

// StatsResponse статистика напоминаний по текущему окну
type StatsResponse struct {
	TotalBookings    int `json:"totalBookings"`
	RemindersSent    int `json:"remindersSent"`
	PendingReminders int `json:"pendingReminders"`
}

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

// Handle GET /api/v1/admin/reminders/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context(), time.Now())
	if err != nil {
		h.logger.Error("GET /admin/reminders/stats - Failed to get stats: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, StatsResponse{
		TotalBookings:    stats.TotalBookings,
		RemindersSent:    stats.RemindersSent,
		PendingReminders: stats.PendingReminders,
	})
}
