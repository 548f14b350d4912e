package validate_booking

import (
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *domain.BookingRequest) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// checkTiming проверяет запрос против политики по времени: шаги 1-5
// Возвращает nil, если запрос проходит все временные ограничения
func checkTiming(policy domain.BookingPolicy, instant, now time.Time) *Decision {
	hours := hoursBetween(now, instant)

	if !policy.AllowOnlineBooking {
		return reject(CodeOnlineBookingDisabled, policy.LimitsMessage(), hours)
	}

	if instant.Before(now.Add(time.Duration(policy.MinAdvanceHours) * time.Hour)) {
		return reject(CodeTooSoon,
			fmt.Sprintf("must book at least %d hours in advance", policy.MinAdvanceHours), hours)
	}

	if instant.After(now.AddDate(0, 0, policy.MaxAdvanceDays)) {
		return reject(CodeTooFar,
			fmt.Sprintf("cannot book more than %d days in advance", policy.MaxAdvanceDays), hours)
	}

	// При minAdvanceHours >= 0 недостижимо
	if instant.Before(now) {
		return reject(CodePastDate, "cannot book a time in the past", hours)
	}

	return nil
}

// hoursBetween количество полных часов от now до instant (округление вниз)
func hoursBetween(now, instant time.Time) int {
	return int(math.Floor(instant.Sub(now).Hours()))
}
