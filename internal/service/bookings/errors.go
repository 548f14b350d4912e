package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/service/cancellation"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCancellationWindow возвращается, когда до приема осталось меньше окна бесплатной отмены
	ErrCancellationWindow = errors.New("cancellation window has passed")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// CancellationWindowError отказ в отмене с оставшимся временем
type CancellationWindowError struct {
	Decision cancellation.Decision
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("%v: %s (%d hours remaining)", ErrCancellationWindow, e.Decision.Reason(), e.Decision.HoursRemaining)
}

func (e *CancellationWindowError) Unwrap() error {
	return ErrCancellationWindow
}
