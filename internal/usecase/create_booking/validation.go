package create_booking

import "fmt"

// validateRequest валидирует входные данные запроса
// Остальные проверки выполняет validate_booking
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	return nil
}
