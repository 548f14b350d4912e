package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// weekdayLabels maps calendar weekdays to the keys used in availability JSON
var weekdayLabels = map[time.Weekday]string{
	time.Sunday:    "sunday",
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// WeekdayLabel returns the availability key for the weekday
func WeekdayLabel(day time.Weekday) string {
	return weekdayLabels[day]
}

func isWeekdayLabel(label string) bool {
	for _, l := range weekdayLabels {
		if l == label {
			return true
		}
	}
	return false
}

// TimeWindow is a closed range [Start, End] of a service day
type TimeWindow struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Contains reports whether [start, end] fits entirely inside the window
func (w TimeWindow) Contains(start, end types.TimeString) bool {
	return !start.IsBefore(w.Start) && !end.IsAfter(w.End)
}

func (w TimeWindow) validate() error {
	if err := w.Start.Validate(); err != nil {
		return err
	}
	if err := w.End.Validate(); err != nil {
		return err
	}
	if !w.Start.IsBefore(w.End) {
		return fmt.Errorf("window %s-%s: start must be before end", w.Start, w.End)
	}
	return nil
}

// DayAvailability is the service schedule of one weekday
type DayAvailability struct {
	Enabled   bool         `json:"enabled"`
	TimeSlots []TimeWindow `json:"timeSlots"`
}

// ServiceAvailability is the weekly schedule of a service keyed by weekday label
type ServiceAvailability map[string]DayAvailability

// ParseServiceAvailability parses the availability JSON of a service.
// An empty string means the service has no configured availability (nil, nil).
func ParseServiceAvailability(raw string) (ServiceAvailability, error) {
	if raw == "" {
		return nil, nil
	}

	var availability ServiceAvailability
	if err := json.Unmarshal([]byte(raw), &availability); err != nil {
		return nil, fmt.Errorf("%w: service availability: %v", ErrConfiguration, err)
	}

	for day, schedule := range availability {
		if !isWeekdayLabel(day) {
			return nil, fmt.Errorf("%w: service availability: unknown weekday %q", ErrConfiguration, day)
		}
		for _, window := range schedule.TimeSlots {
			if err := window.validate(); err != nil {
				return nil, fmt.Errorf("%w: service availability %s: %v", ErrConfiguration, day, err)
			}
		}
	}

	return availability, nil
}

// Windows returns the bookable windows for the weekday; false if the day is not bookable
func (a ServiceAvailability) Windows(day time.Weekday) ([]TimeWindow, bool) {
	schedule, ok := a[WeekdayLabel(day)]
	if !ok || !schedule.Enabled || len(schedule.TimeSlots) == 0 {
		return nil, false
	}
	return schedule.TimeSlots, true
}

// StaffDayHours is the working time of a staff member on one weekday
type StaffDayHours struct {
	IsWorking bool             `json:"isWorking"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// StaffWorkingHours is the weekly schedule of a staff member keyed by weekday label
type StaffWorkingHours map[string]StaffDayHours

// ParseStaffWorkingHours parses the working hours JSON of a staff member.
// An empty string or an empty object means no hours are configured (nil, nil).
func ParseStaffWorkingHours(raw string) (StaffWorkingHours, error) {
	if raw == "" {
		return nil, nil
	}

	var hours StaffWorkingHours
	if err := json.Unmarshal([]byte(raw), &hours); err != nil {
		return nil, fmt.Errorf("%w: staff working hours: %v", ErrConfiguration, err)
	}
	if len(hours) == 0 {
		return nil, nil
	}

	for day, schedule := range hours {
		if !isWeekdayLabel(day) {
			return nil, fmt.Errorf("%w: staff working hours: unknown weekday %q", ErrConfiguration, day)
		}
		if !schedule.IsWorking {
			continue
		}
		window := TimeWindow{Start: schedule.StartTime, End: schedule.EndTime}
		if err := window.validate(); err != nil {
			return nil, fmt.Errorf("%w: staff working hours %s: %v", ErrConfiguration, day, err)
		}
	}

	return hours, nil
}

// Window returns the working window for the weekday; false if the staff member is off
func (h StaffWorkingHours) Window(day time.Weekday) (TimeWindow, bool) {
	schedule, ok := h[WeekdayLabel(day)]
	if !ok || !schedule.IsWorking {
		return TimeWindow{}, false
	}
	return TimeWindow{Start: schedule.StartTime, End: schedule.EndTime}, true
}
