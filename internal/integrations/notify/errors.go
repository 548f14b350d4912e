package notify

import "errors"

var (
	// ErrNoChannel у получателя нет ни одного доступного канала
	ErrNoChannel = errors.New("notify: no delivery channel available")

	// ErrDeliveryFailed все доступные каналы вернули ошибку
	ErrDeliveryFailed = errors.New("notify: delivery failed")

	// ErrProvider ошибка внешнего провайдера
	ErrProvider = errors.New("notify: provider error")
)
