package policy

import "errors"

var (
	// ErrInvalidInput возвращается при выходе значений политики за допустимые границы
	ErrInvalidInput = errors.New("policy: invalid input data")

	// ErrInternal возвращается при ошибках сохранения политики
	ErrInternal = errors.New("policy: internal error")
)
