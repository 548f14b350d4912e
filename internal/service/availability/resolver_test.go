package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookings struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookings) GetByStaffAndDate(context.Context, int64, time.Time, bool) ([]*domain.Booking, error) {
	return f.bookings, f.err
}

var (
	monday  = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
)

func mondayMorningService() *domain.Service {
	return &domain.Service{
		ID:              3,
		Name:            "Physiotherapy",
		DurationMinutes: 60,
		IsActive:        true,
		Availability:    `{"monday":{"enabled":true,"timeSlots":[{"start":"09:00","end":"12:00"}]}}`,
	}
}

func TestIsSlotAvailable(t *testing.T) {
	resolver := NewResolver(&fakeBookings{}, nopLogger{})

	tests := []struct {
		name       string
		service    *domain.Service
		date       time.Time
		start      types.TimeString
		wantOK     bool
		wantReason string
	}{
		{name: "runs past window end", service: mondayMorningService(), date: monday, start: "11:30", wantReason: ReasonOutsideServiceHours},
		{name: "ends at window end", service: mondayMorningService(), date: monday, start: "11:00", wantOK: true},
		{name: "starts at window start", service: mondayMorningService(), date: monday, start: "09:00", wantOK: true},
		{name: "before window", service: mondayMorningService(), date: monday, start: "08:30", wantReason: ReasonOutsideServiceHours},
		{name: "day not configured", service: mondayMorningService(), date: tuesday, start: "10:00", wantReason: ReasonServiceNotBookable},
		{name: "no availability", service: &domain.Service{ID: 4, DurationMinutes: 30}, date: monday, start: "10:00", wantReason: ReasonServiceNotBookable},
		{name: "past midnight", service: &domain.Service{
			ID:              5,
			DurationMinutes: 120,
			Availability:    `{"monday":{"enabled":true,"timeSlots":[{"start":"20:00","end":"23:59"}]}}`,
		}, date: monday, start: "23:00", wantReason: ReasonOutsideServiceHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason, err := resolver.IsSlotAvailable(tt.service, tt.date, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestIsSlotAvailable_WindowsNotMerged(t *testing.T) {
	resolver := NewResolver(&fakeBookings{}, nopLogger{})
	service := &domain.Service{
		ID:              6,
		DurationMinutes: 60,
		Availability:    `{"monday":{"enabled":true,"timeSlots":[{"start":"09:00","end":"10:30"},{"start":"10:30","end":"12:00"}]}}`,
	}

	ok, _, err := resolver.IsSlotAvailable(service, monday, "10:00")
	require.NoError(t, err)
	assert.False(t, ok, "request spanning two adjacent windows must be rejected")
}

func TestIsSlotAvailable_ConfigurationError(t *testing.T) {
	resolver := NewResolver(&fakeBookings{}, nopLogger{})
	service := &domain.Service{ID: 7, DurationMinutes: 30, Availability: `{"monday": "always"}`}

	_, _, err := resolver.IsSlotAvailable(service, monday, "10:00")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestCheckStaffHours(t *testing.T) {
	resolver := NewResolver(&fakeBookings{}, nopLogger{})
	staff := &domain.Staff{
		ID:           7,
		WorkingHours: `{"monday":{"isWorking":true,"startTime":"10:00","endTime":"18:00"},"tuesday":{"isWorking":false}}`,
	}

	ok, _, err := resolver.CheckStaffHours(staff, monday, "10:00", "11:00")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, reason, err := resolver.CheckStaffHours(staff, monday, "09:30", "10:30")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ReasonOutsideStaffHours, reason)

	ok, reason, err = resolver.CheckStaffHours(staff, tuesday, "10:00", "11:00")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ReasonStaffNotWorking, reason)

	ok, _, err = resolver.CheckStaffHours(&domain.Staff{ID: 8}, tuesday, "06:00", "07:00")
	require.NoError(t, err)
	assert.True(t, ok, "staff without hours is unconstrained")

	_, _, err = resolver.CheckStaffHours(&domain.Staff{ID: 9, WorkingHours: "[]"}, monday, "10:00", "11:00")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestComputeBookedSlots(t *testing.T) {
	repo := &fakeBookings{bookings: []*domain.Booking{
		{ID: 1, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
		{ID: 2, StartTime: "11:00", EndTime: "11:30", Status: domain.StatusCancelled},
		{ID: 3, StartTime: "13:00", EndTime: "13:45", Status: domain.StatusPending},
	}}
	resolver := NewResolver(repo, nopLogger{})

	slots, err := resolver.ComputeBookedSlots(context.Background(), 7, tuesday)
	require.NoError(t, err)

	assert.Equal(t, []domain.BookedSlot{
		{BookingID: 1, StartTime: "10:00", EndTime: "11:00", DurationMinutes: 60},
		{BookingID: 3, StartTime: "13:00", EndTime: "13:45", DurationMinutes: 45},
	}, slots)
}

func TestComputeBookedSlots_Error(t *testing.T) {
	resolver := NewResolver(&fakeBookings{err: errors.New("db down")}, nopLogger{})

	_, err := resolver.ComputeBookedSlots(context.Background(), 7, tuesday)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestAvailableStartTimes(t *testing.T) {
	resolver := NewResolver(&fakeBookings{}, nopLogger{})
	service := mondayMorningService()
	staff := &domain.Staff{ID: 7, WorkingHours: `{"monday":{"isWorking":true,"startTime":"09:30","endTime":"18:00"}}`}
	booked := []domain.BookedSlot{{StartTime: "10:00", EndTime: "10:30", DurationMinutes: 30}}

	slots, err := resolver.AvailableStartTimes(service, staff, monday, booked, 30)
	require.NoError(t, err)

	starts := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime)
		assert.Equal(t, 60, s.DurationMinutes)
	}
	// 09:30 overlaps 10:00-10:30, 10:00 is booked, 11:00-12:00 is the last fit
	assert.Equal(t, []types.TimeString{"10:30", "11:00"}, starts)
}

func TestAvailableStartTimes_StaffOff(t *testing.T) {
	resolver := NewResolver(&fakeBookings{}, nopLogger{})
	staff := &domain.Staff{ID: 7, WorkingHours: `{"monday":{"isWorking":false}}`}

	slots, err := resolver.AvailableStartTimes(mondayMorningService(), staff, monday, nil, 15)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestHasConflict(t *testing.T) {
	booked := []domain.BookedSlot{{StartTime: "10:00", EndTime: "11:00"}}

	assert.True(t, HasConflict(booked, "10:30", "11:30"))
	assert.False(t, HasConflict(booked, "11:00", "12:00"))
	assert.False(t, HasConflict(nil, "10:00", "11:00"))
}
