package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
)

// Booking represents an appointment of a client with a staff member
type Booking struct {
	ID          int64
	UserID      int64
	ServiceID   int64
	StaffID     int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString // always StartTime + service duration
	Status      BookingStatus

	ReminderSent bool
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its time range
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// DurationMinutes returns the length of the booking
func (b *Booking) DurationMinutes() (int, error) {
	return b.EndTime.MinutesSince(b.StartTime)
}

// StartsAt combines the booking date and start time in the given location
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	y, m, d := b.BookingDate.Date()
	return b.StartTime.On(time.Date(y, m, d, 0, 0, 0, 0, loc))
}

// Overlaps reports whether the booking intersects [start, end).
// Adjacent intervals do not overlap.
func (b *Booking) Overlaps(start, end types.TimeString) bool {
	return IntervalsOverlap(b.StartTime, b.EndTime, start, end)
}

// IntervalsOverlap is the half-open interval test aStart < bEnd && bStart < aEnd
func IntervalsOverlap(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && bStart.IsBefore(aEnd)
}

// IsValidStatus checks that the status is one of the known values
func IsValidStatus(status BookingStatus) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// BookingRequest is the transient input of a booking validation
type BookingRequest struct {
	UserID    int64
	ServiceID int64
	StaffID   int64
	Date      time.Time
	StartTime types.TimeString
	Notes     *string
}

// Instant returns date + start time in the date's location
func (r *BookingRequest) Instant() (time.Time, error) {
	return r.StartTime.On(r.Date)
}
