package validate_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
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

// SlotResolver проверка расписания и занятости
type SlotResolver interface {
	ComputeBookedSlots(ctx context.Context, staffID int64, date time.Time) ([]domain.BookedSlot, error)
	IsSlotAvailable(service *domain.Service, date time.Time, start types.TimeString) (bool, string, error)
	CheckStaffHours(staff *domain.Staff, date time.Time, start, end types.TimeString) (bool, string, error)
}

// Metrics учет решений по бронированиям
type Metrics interface {
	ObserveBookingDecision(code string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
