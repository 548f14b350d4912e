package domain

import "github.com/m04kA/SMC-ClinicBookingService/pkg/types"

// BookedSlot is a time range already occupied by a non-cancelled booking
type BookedSlot struct {
	BookingID       int64
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}

// Overlaps reports whether the slot intersects [start, end)
func (s BookedSlot) Overlaps(start, end types.TimeString) bool {
	return IntervalsOverlap(s.StartTime, s.EndTime, start, end)
}

// AvailableSlot is a bookable start time for a service with a staff member
type AvailableSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}
