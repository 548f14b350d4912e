package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrStaffNotFound возвращается, когда специалист не найден или неактивен
	ErrStaffNotFound = errors.New("get_available_slots: staff not found")

	// ErrConfiguration возвращается при некорректном расписании услуги или специалиста
	ErrConfiguration = errors.New("get_available_slots: schedule misconfigured")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
