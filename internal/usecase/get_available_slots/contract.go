package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// PolicyProvider источник политики бронирования
type PolicyProvider interface {
	GetPolicy(ctx context.Context) domain.BookingPolicy
}

// CatalogRepository интерфейс репозитория услуг и специалистов
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
	GetStaffByID(ctx context.Context, id int64) (*domain.Staff, error)
}

// SlotResolver расчет занятых и свободных интервалов
type SlotResolver interface {
	ComputeBookedSlots(ctx context.Context, staffID int64, date time.Time) ([]domain.BookedSlot, error)
	AvailableStartTimes(service *domain.Service, staff *domain.Staff, date time.Time, booked []domain.BookedSlot, step int) ([]domain.AvailableSlot, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
