package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	StaffID   int64     // ID специалиста
	Date      time.Time // Дата (без времени, в часовом поясе клиники)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time
	ServiceID int64
	StaffID   int64
	Slots     []Slot
}

// Slot свободное время начала приема
type Slot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}
