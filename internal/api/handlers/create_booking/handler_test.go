package create_booking

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

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ClinicBookingService/internal/usecase/validate_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(t *testing.T, uc CreateBookingUseCase, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := middleware.Auth(http.HandlerFunc(NewHandler(uc, time.UTC, nopLogger{}).Handle))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"serviceId":1,"staffId":2,"bookingDate":"2025-01-02","startTime":"09:00"}`

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: &createBooking.Response{
		ID:              10,
		UserID:          7,
		ServiceID:       1,
		StaffID:         2,
		BookingDate:     time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		EndTime:         "10:00",
		DurationMinutes: 60,
		Status:          "CONFIRMED",
	}}

	rec := serve(t, uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(7), uc.got.UserID)
	assert.Equal(t, "09:00", uc.got.StartTime.String())

	var resp BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "10:00", resp.EndTime)
	assert.Equal(t, "2025-01-02", resp.BookingDate)
}

func TestHandle_Rejected(t *testing.T) {
	uc := &fakeUseCase{err: &createBooking.RejectionError{Decision: &validate_booking.Decision{
		Code:            validate_booking.CodeTooSoon,
		Reason:          "booking must be made at least 2 hours in advance",
		HoursUntilStart: 1,
	}}}

	rec := serve(t, uc, validBody)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp RejectionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, validate_booking.CodeTooSoon, resp.Code)
	assert.Equal(t, 1, resp.HoursUntilStart)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{name: "bad json", body: `{`, want: http.StatusBadRequest},
		{name: "bad date", body: `{"serviceId":1,"staffId":2,"bookingDate":"02.01.2025","startTime":"09:00"}`, want: http.StatusBadRequest},
		{name: "bad time", body: `{"serviceId":1,"staffId":2,"bookingDate":"2025-01-02","startTime":"9am"}`, want: http.StatusBadRequest},
		{name: "slot taken", body: validBody, err: createBooking.ErrSlotNotAvailable, want: http.StatusConflict},
		{name: "internal", body: validBody, err: createBooking.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeUseCase{err: tt.err}, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandle_Unauthorized(t *testing.T) {
	handler := middleware.Auth(http.HandlerFunc(NewHandler(&fakeUseCase{}, time.UTC, nopLogger{}).Handle))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(validBody)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
