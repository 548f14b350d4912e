package reminders

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reminders: booking not found")

	// ErrNotRemindable возвращается для отмененного или завершенного бронирования
	ErrNotRemindable = errors.New("reminders: booking is not active")

	// ErrDelivery возвращается, когда напоминание не удалось доставить
	ErrDelivery = errors.New("reminders: delivery failed")

	// ErrInternal возвращается при внутренних ошибках планировщика
	ErrInternal = errors.New("reminders: internal error")
)
