package domain

// Default booking policy values, used when the clinic settings are absent or malformed
const (
	DefaultMaxAdvanceDays     = 60
	DefaultMinAdvanceHours    = 2
	DefaultCancellationHours  = 24
	DefaultAllowOnlineBooking = true
)

// Business validation constants
const (
	MaxAdvanceDaysLimit    = 365 // 1 year
	MaxMinAdvanceHours     = 168 // 1 week
	MaxCancellationHours   = 720 // 30 days
	MaxNotesLength         = 500
	MaxCancellationReason  = 500
	MinServiceDurationMins = 5
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses statuses that no longer occupy a staff member's time
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}
