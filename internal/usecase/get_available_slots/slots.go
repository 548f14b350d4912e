package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// filterByPolicy оставляет слоты, которые проходят ограничения политики по времени:
// не раньше now+minAdvanceHours и не позже now+maxAdvanceDays
func filterByPolicy(slots []domain.AvailableSlot, date time.Time, now time.Time, policy domain.BookingPolicy) []Slot {
	earliest := now.Add(time.Duration(policy.MinAdvanceHours) * time.Hour)
	latest := now.AddDate(0, 0, policy.MaxAdvanceDays)

	result := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		instant, err := slot.StartTime.On(date)
		if err != nil {
			continue
		}
		if instant.Before(earliest) || instant.After(latest) {
			continue
		}
		result = append(result, Slot{
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			DurationMinutes: slot.DurationMinutes,
		})
	}

	return result
}
