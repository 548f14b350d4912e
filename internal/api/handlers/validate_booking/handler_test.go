package validate_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	validateBooking "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/validate_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeValidator struct {
	gotReq   *domain.BookingRequest
	gotNow   time.Time
	decision *validateBooking.Decision
	err      error
}

func (f *fakeValidator) Validate(_ context.Context, req *domain.BookingRequest, now time.Time) (*validateBooking.Decision, error) {
	f.gotReq, f.gotNow = req, now
	return f.decision, f.err
}

func TestHandle_DecisionInClinicLocation(t *testing.T) {
	loc := time.FixedZone("clinic", 3*60*60)
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, loc)
	validator := &fakeValidator{decision: &validateBooking.Decision{
		Accepted:        true,
		Code:            validateBooking.CodeAccepted,
		EndTime:         "11:00",
		DurationMinutes: 60,
		HoursUntilStart: 26,
	}}

	h := NewHandler(validator, loc, nopLogger{})
	h.now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/validate",
		strings.NewReader(`{"serviceId":1,"staffId":2,"bookingDate":"2025-01-02","startTime":"10:00"}`))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, now, validator.gotNow)
	assert.Equal(t, loc, validator.gotReq.Date.Location())

	var resp DecisionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Accepted)
	assert.Equal(t, "11:00", resp.EndTime)
}

func TestHandle_RejectionIsOK(t *testing.T) {
	validator := &fakeValidator{decision: &validateBooking.Decision{
		Code:   validateBooking.CodeOutsideStaffHours,
		Reason: "staff member is not working at this time",
	}}

	rec := httptest.NewRecorder()
	NewHandler(validator, time.UTC, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/validate",
		strings.NewReader(`{"serviceId":1,"staffId":2,"bookingDate":"2025-01-02","startTime":"10:00"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DecisionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Accepted)
	assert.Equal(t, validateBooking.CodeOutsideStaffHours, resp.Code)
	assert.Empty(t, resp.EndTime)
}

func TestHandle_InvalidInput(t *testing.T) {
	validator := &fakeValidator{err: validateBooking.ErrInvalidInput}

	rec := httptest.NewRecorder()
	NewHandler(validator, time.UTC, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/validate",
		strings.NewReader(`{"serviceId":0,"staffId":2,"bookingDate":"2025-01-02","startTime":"10:00"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
