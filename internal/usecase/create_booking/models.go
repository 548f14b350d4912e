package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID    int64            // ID клиента
	ServiceID int64            // ID услуги
	StaffID   int64            // ID специалиста
	Date      time.Time        // Дата приема (без времени, в часовом поясе клиники)
	StartTime types.TimeString // Время начала (например, "10:00")
	Notes     *string          // Заметки (опционально)
}

func (r *Request) toDomain() *domain.BookingRequest {
	return &domain.BookingRequest{
		UserID:    r.UserID,
		ServiceID: r.ServiceID,
		StaffID:   r.StaffID,
		Date:      r.Date,
		StartTime: r.StartTime,
		Notes:     r.Notes,
	}
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	UserID          int64
	ServiceID       int64
	StaffID         int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
