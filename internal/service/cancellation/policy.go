package cancellation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// PolicyProvider источник политики бронирования
type PolicyProvider interface {
	GetPolicy(ctx context.Context) domain.BookingPolicy
}

// Decision результат проверки бесплатной отмены
type Decision struct {
	CanCancel         bool
	HoursRemaining    int
	CancellationHours int
}

// Reason возвращает текст отказа для клиента
func (d Decision) Reason() string {
	return fmt.Sprintf("cancellation free only up to %d hours before", d.CancellationHours)
}

// Policy решает, можно ли отменить бронирование без штрафа
type Policy struct {
	policies PolicyProvider
}

func NewPolicy(policies PolicyProvider) *Policy {
	return &Policy{policies: policies}
}

// CanCancelFree сравнивает целое число часов до начала с окном отмены. Побочных эффектов нет
func (p *Policy) CanCancelFree(ctx context.Context, bookingInstant, now time.Time) Decision {
	return Evaluate(p.policies.GetPolicy(ctx), bookingInstant, now)
}

// Evaluate чистая часть CanCancelFree
func Evaluate(policy domain.BookingPolicy, bookingInstant, now time.Time) Decision {
	hours := int(math.Floor(bookingInstant.Sub(now).Hours()))
	return Decision{
		CanCancel:         hours >= policy.CancellationHours,
		HoursRemaining:    hours,
		CancellationHours: policy.CancellationHours,
	}
}
