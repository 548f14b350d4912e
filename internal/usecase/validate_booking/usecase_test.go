package validate_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/availability"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type staticPolicy struct {
	policy domain.BookingPolicy
}

func (s staticPolicy) GetPolicy(context.Context) domain.BookingPolicy {
	return s.policy
}

type fakeCatalog struct {
	services map[int64]*domain.Service
	staff    map[int64]*domain.Staff
	err      error
}

func (f *fakeCatalog) GetServiceByID(_ context.Context, id int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalog) GetStaffByID(_ context.Context, id int64) (*domain.Staff, error) {
	s, ok := f.staff[id]
	if !ok {
		return nil, catalogRepo.ErrStaffNotFound
	}
	return s, nil
}

type fakeBookings struct {
	bookings []*domain.Booking
	calls    int
}

func (f *fakeBookings) GetByStaffAndDate(context.Context, int64, time.Time, bool) ([]*domain.Booking, error) {
	f.calls++
	return f.bookings, nil
}

type recordingMetrics struct {
	codes []string
}

func (m *recordingMetrics) ObserveBookingDecision(code string) {
	m.codes = append(m.codes, code)
}

const weekdays = `{
	"monday":{"enabled":true,"timeSlots":[{"start":"09:00","end":"12:00"}]},
	"tuesday":{"enabled":true,"timeSlots":[{"start":"09:00","end":"18:00"}]},
	"wednesday":{"enabled":true,"timeSlots":[{"start":"08:00","end":"18:00"}]},
	"sunday":{"enabled":false,"timeSlots":[]}
}`

var (
	now       = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	wednesday = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	monday    = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tuesday   = time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	catalog  *fakeCatalog
	bookings *fakeBookings
	metrics  *recordingMetrics
	uc       *UseCase
}

func newFixture(policy domain.BookingPolicy) *fixture {
	f := &fixture{
		catalog: &fakeCatalog{
			services: map[int64]*domain.Service{
				1: {ID: 1, Name: "Consultation", DurationMinutes: 60, IsActive: true, Availability: weekdays},
				2: {ID: 2, Name: "Archived", DurationMinutes: 30, IsActive: false, Availability: weekdays},
				3: {ID: 3, Name: "Broken", DurationMinutes: 30, IsActive: true, Availability: `{"tuesday":`},
			},
			staff: map[int64]*domain.Staff{
				10: {ID: 10, Name: "Dr. Lee", IsActive: true},
				11: {ID: 11, Name: "Dr. Gone", IsActive: false},
				12: {ID: 12, Name: "Dr. Late", IsActive: true,
					WorkingHours: `{"tuesday":{"isWorking":true,"startTime":"12:00","endTime":"18:00"}}`},
			},
		},
		bookings: &fakeBookings{},
		metrics:  &recordingMetrics{},
	}
	resolver := availability.NewResolver(f.bookings, nopLogger{})
	f.uc = NewUseCase(staticPolicy{policy: policy}, f.catalog, resolver, f.metrics, nopLogger{})
	return f
}

func request(serviceID, staffID int64, date time.Time, start string) *domain.BookingRequest {
	return &domain.BookingRequest{
		UserID:    100,
		ServiceID: serviceID,
		StaffID:   staffID,
		Date:      date,
		StartTime: types.TimeString(start),
	}
}

func TestValidate_ScenarioA(t *testing.T) {
	f := newFixture(domain.DefaultBookingPolicy())

	decision, err := f.uc.Validate(context.Background(), request(1, 10, wednesday, "11:00"), now)
	require.NoError(t, err)
	assert.False(t, decision.Accepted)
	assert.Equal(t, CodeTooSoon, decision.Code)
	assert.Equal(t, "must book at least 2 hours in advance", decision.Reason)
	assert.Equal(t, 1, decision.HoursUntilStart)

	decision, err = f.uc.Validate(context.Background(), request(1, 10, wednesday, "13:00"), now)
	require.NoError(t, err)
	assert.True(t, decision.Accepted)
	assert.Equal(t, types.TimeString("14:00"), decision.EndTime)
	assert.Equal(t, 60, decision.DurationMinutes)

	assert.Equal(t, []string{CodeTooSoon, CodeAccepted}, f.metrics.codes)
}

func TestValidate_ScenarioB(t *testing.T) {
	f := newFixture(domain.DefaultBookingPolicy())

	decision, err := f.uc.Validate(context.Background(), request(1, 10, monday, "11:30"), now)
	require.NoError(t, err)
	assert.Equal(t, CodeOutsideServiceHours, decision.Code)
	assert.Equal(t, availability.ReasonOutsideServiceHours, decision.Reason)
}

func TestValidate_ScenarioC(t *testing.T) {
	f := newFixture(domain.DefaultBookingPolicy())
	f.bookings.bookings = []*domain.Booking{
		{ID: 1, StaffID: 10, BookingDate: tuesday, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
		{ID: 2, StaffID: 10, BookingDate: tuesday, StartTime: "13:00", EndTime: "14:00", Status: domain.StatusCancelled},
	}

	decision, err := f.uc.Validate(context.Background(), request(1, 10, tuesday, "10:30"), now)
	require.NoError(t, err)
	assert.Equal(t, CodeSlotConflict, decision.Code)

	decision, err = f.uc.Validate(context.Background(), request(1, 10, tuesday, "11:00"), now)
	require.NoError(t, err)
	assert.True(t, decision.Accepted)
	assert.Equal(t, types.TimeString("12:00"), decision.EndTime)

	// Отмененное бронирование не занимает интервал
	decision, err = f.uc.Validate(context.Background(), request(1, 10, tuesday, "13:00"), now)
	require.NoError(t, err)
	assert.True(t, decision.Accepted)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		req      *domain.BookingRequest
		wantCode string
	}{
		{name: "too far", req: request(1, 10, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), "10:00"), wantCode: CodeTooFar},
		{name: "past", req: request(1, 10, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "10:00"), wantCode: CodeTooSoon},
		{name: "unknown service", req: request(99, 10, tuesday, "10:00"), wantCode: CodeServiceUnavailable},
		{name: "inactive service", req: request(2, 10, tuesday, "10:00"), wantCode: CodeServiceUnavailable},
		{name: "unknown staff", req: request(1, 99, tuesday, "10:00"), wantCode: CodeStaffUnavailable},
		{name: "inactive staff", req: request(1, 11, tuesday, "10:00"), wantCode: CodeStaffUnavailable},
		{name: "disabled day", req: request(1, 10, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), "10:00"), wantCode: CodeOutsideServiceHours},
		{name: "outside staff hours", req: request(1, 12, tuesday, "11:00"), wantCode: CodeOutsideStaffHours},
		{name: "malformed availability", req: request(3, 10, tuesday, "10:00"), wantCode: CodeConfigurationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(domain.DefaultBookingPolicy())

			decision, err := f.uc.Validate(context.Background(), tt.req, now)
			require.NoError(t, err)
			assert.False(t, decision.Accepted)
			assert.Equal(t, tt.wantCode, decision.Code)
			assert.NotEmpty(t, decision.Reason)
		})
	}
}

func TestValidate_ConfigurationErrorIsDistinct(t *testing.T) {
	f := newFixture(domain.DefaultBookingPolicy())

	decision, err := f.uc.Validate(context.Background(), request(3, 10, tuesday, "10:00"), now)
	require.NoError(t, err)
	assert.True(t, decision.IsConfigurationError())
	assert.Contains(t, decision.Reason, domain.ErrConfiguration.Error())
}

func TestValidate_OnlineBookingDisabled(t *testing.T) {
	policy := domain.DefaultBookingPolicy()
	policy.AllowOnlineBooking = false
	f := newFixture(policy)

	decision, err := f.uc.Validate(context.Background(), request(1, 10, tuesday, "10:00"), now)
	require.NoError(t, err)
	assert.Equal(t, CodeOnlineBookingDisabled, decision.Code)
	assert.Equal(t, policy.LimitsMessage(), decision.Reason)
	assert.Equal(t, 0, f.bookings.calls)
}

func TestValidate_Pure(t *testing.T) {
	f := newFixture(domain.DefaultBookingPolicy())
	f.bookings.bookings = []*domain.Booking{
		{ID: 1, StaffID: 10, BookingDate: tuesday, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
	}

	for _, start := range []string{"09:00", "10:30", "11:00", "17:30"} {
		first, err := f.uc.Validate(context.Background(), request(1, 10, tuesday, start), now)
		require.NoError(t, err)
		second, err := f.uc.Validate(context.Background(), request(1, 10, tuesday, start), now)
		require.NoError(t, err)
		assert.Equal(t, first, second, start)
	}
	assert.Len(t, f.bookings.bookings, 1)
}

func TestValidate_Errors(t *testing.T) {
	f := newFixture(domain.DefaultBookingPolicy())

	_, err := f.uc.Validate(context.Background(), request(1, 10, tuesday, "25:00"), now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Validate(context.Background(), request(0, 10, tuesday, "10:00"), now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	f.catalog.err = errors.New("db down")
	_, err = f.uc.Validate(context.Background(), request(1, 10, tuesday, "10:00"), now)
	assert.ErrorIs(t, err, ErrInternal)
}
