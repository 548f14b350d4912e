package get_reminder_stats

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

type ReminderService interface {
	GetStats(ctx context.Context, now time.Time) (*domain.ReminderStats, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
