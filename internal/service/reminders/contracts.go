package reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	FindReminderCandidates(ctx context.Context, window domain.ReminderWindow) ([]*domain.ReminderCandidate, error)
	GetReminderCandidate(ctx context.Context, id int64) (*domain.ReminderCandidate, error)
	MarkReminderSent(ctx context.Context, id int64) (bool, error)
	SetReminderSent(ctx context.Context, id int64) error
	ResetReminderSent(ctx context.Context, id int64) error
	CountReminderStats(ctx context.Context, window domain.ReminderWindow) (*domain.ReminderStats, error)
}

// RecipientDirectory возвращает контакты клиента
type RecipientDirectory interface {
	GetRecipient(ctx context.Context, userID int64) (*domain.Recipient, error)
}

// Notifier доставляет напоминание клиенту
type Notifier interface {
	SendReminder(ctx context.Context, recipient domain.Recipient, reminder domain.Reminder) error
}

// Claimer межпроцессная блокировка отправки по бронированию
type Claimer interface {
	Claim(ctx context.Context, bookingID int64) (bool, error)
	Release(ctx context.Context, bookingID int64) error
}

// Metrics учет отправленных напоминаний
type Metrics interface {
	ObserveReminder(result string)
	ObserveReminderScan(duration time.Duration)
}

// TimeProvider источник текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
