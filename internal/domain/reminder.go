package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// ReminderWindow is the calendar day [Start, End) whose bookings get a reminder
type ReminderWindow struct {
	Start time.Time
	End   time.Time
}

// NewReminderWindow returns the calendar day containing now + lookahead
func NewReminderWindow(now time.Time, lookahead time.Duration) ReminderWindow {
	target := now.Add(lookahead)
	start := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
	return ReminderWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

// Contains reports whether the date falls inside the window
func (w ReminderWindow) Contains(date time.Time) bool {
	return !date.Before(w.Start) && date.Before(w.End)
}

// ReminderCandidate is a booking due for a reminder with the names needed for the message
type ReminderCandidate struct {
	Booking     Booking
	ServiceName string
	StaffName   string
}

// ReminderStats describes reminder progress for one window
type ReminderStats struct {
	TotalBookings    int
	RemindersSent    int
	PendingReminders int
}

// Recipient is the client who receives the reminder
type Recipient struct {
	UserID int64
	Name   string
	Email  string
	Phone  string
}

// Reminder is the content of an appointment reminder
type Reminder struct {
	BookingID   int64
	ServiceName string
	StaffName   string
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
}

// NewReminder builds the reminder content from a candidate
func NewReminder(c ReminderCandidate) Reminder {
	return Reminder{
		BookingID:   c.Booking.ID,
		ServiceName: c.ServiceName,
		StaffName:   c.StaffName,
		Date:        c.Booking.BookingDate,
		StartTime:   c.Booking.StartTime,
		EndTime:     c.Booking.EndTime,
	}
}
