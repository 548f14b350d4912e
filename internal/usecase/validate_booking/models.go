package validate_booking

import (
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Коды решений
const (
	CodeAccepted              = "accepted"
	CodeOnlineBookingDisabled = "online_booking_disabled"
	CodeTooSoon               = "too_soon"
	CodeTooFar                = "too_far"
	CodePastDate              = "past_date"
	CodeServiceUnavailable    = "service_unavailable"
	CodeStaffUnavailable      = "staff_unavailable"
	CodeOutsideServiceHours   = "outside_service_hours"
	CodeOutsideStaffHours     = "outside_staff_hours"
	CodeConfigurationError    = "configuration_error"
	CodeSlotConflict          = "slot_conflict"
)

// Decision результат проверки запроса на бронирование
type Decision struct {
	Accepted        bool
	EndTime         types.TimeString // только для принятого запроса
	DurationMinutes int              // только для принятого запроса
	Code            string
	Reason          string
	HoursUntilStart int
}

// IsConfigurationError сообщает, что отказ вызван ошибкой настройки расписания
func (d *Decision) IsConfigurationError() bool {
	return d.Code == CodeConfigurationError
}

func accept(end types.TimeString, duration, hours int) *Decision {
	return &Decision{
		Accepted:        true,
		EndTime:         end,
		DurationMinutes: duration,
		Code:            CodeAccepted,
		HoursUntilStart: hours,
	}
}

func reject(code, reason string, hours int) *Decision {
	return &Decision{
		Code:            code,
		Reason:          reason,
		HoursUntilStart: hours,
	}
}
