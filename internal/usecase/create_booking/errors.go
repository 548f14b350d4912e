package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/usecase/validate_booking"
)

var (
	// ErrRejected возвращается, когда запрос отклонен проверкой политики или расписания
	ErrRejected = errors.New("create_booking: booking rejected")

	// ErrSlotNotAvailable возвращается, когда интервал занят к моменту записи
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// RejectionError отказ с решением валидатора
type RejectionError struct {
	Decision *validate_booking.Decision
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrRejected, e.Decision.Code, e.Decision.Reason)
}

func (e *RejectionError) Unwrap() error {
	return ErrRejected
}
