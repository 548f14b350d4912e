package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ClinicBookingService/internal/usecase/validate_booking"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeValidator struct {
	decision *validate_booking.Decision
	err      error
	gotNow   time.Time
}

func (f *fakeValidator) Validate(_ context.Context, _ *domain.BookingRequest, now time.Time) (*validate_booking.Decision, error) {
	f.gotNow = now
	return f.decision, f.err
}

type fakeRepo struct {
	existing  []*domain.Booking
	createErr error
	created   []*domain.Booking
}

func (f *fakeRepo) GetByStaffAndDate(context.Context, int64, time.Time, bool) ([]*domain.Booking, error) {
	return f.existing, nil
}

func (f *fakeRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	b.ID = int64(len(f.created) + 1)
	f.created = append(f.created, b)
	return b, nil
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

var (
	now     = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
)

func newTestUseCase(repo *fakeRepo, validator *fakeValidator) (*UseCase, *fakeTx) {
	tx := &fakeTx{}
	uc := NewUseCase(repo, validator, tx, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc, tx
}

func testRequest(start string) *Request {
	return &Request{UserID: 100, ServiceID: 1, StaffID: 10, Date: tuesday, StartTime: types.TimeString(start)}
}

func accepted(end string) *validate_booking.Decision {
	return &validate_booking.Decision{Accepted: true, EndTime: types.TimeString(end), DurationMinutes: 60, Code: validate_booking.CodeAccepted}
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeRepo{existing: []*domain.Booking{
		{ID: 5, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
	}}
	validator := &fakeValidator{decision: accepted("12:00")}
	uc, tx := newTestUseCase(repo, validator)

	resp, err := uc.Execute(context.Background(), testRequest("11:00"))
	require.NoError(t, err)

	assert.Equal(t, now, validator.gotNow)
	assert.Equal(t, 1, tx.calls)
	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.StatusConfirmed, repo.created[0].Status)
	assert.Equal(t, types.TimeString("12:00"), repo.created[0].EndTime)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_Rejected(t *testing.T) {
	repo := &fakeRepo{}
	validator := &fakeValidator{decision: &validate_booking.Decision{Code: validate_booking.CodeTooSoon, Reason: "must book at least 2 hours in advance"}}
	uc, tx := newTestUseCase(repo, validator)

	_, err := uc.Execute(context.Background(), testRequest("11:00"))
	require.ErrorIs(t, err, ErrRejected)

	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, validate_booking.CodeTooSoon, rejection.Decision.Code)
	assert.Equal(t, 0, tx.calls)
	assert.Empty(t, repo.created)
}

func TestExecute_ConflictOnRecheck(t *testing.T) {
	// Интервал заняли между проверкой и записью
	repo := &fakeRepo{existing: []*domain.Booking{
		{ID: 5, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
	}}
	uc, _ := newTestUseCase(repo, &fakeValidator{decision: accepted("11:30")})

	_, err := uc.Execute(context.Background(), testRequest("10:30"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, repo.created)
}

func TestExecute_StorageConstraint(t *testing.T) {
	repo := &fakeRepo{createErr: fmt.Errorf("%w: Create", bookingRepo.ErrSlotNotAvailable)}
	uc, _ := newTestUseCase(repo, &fakeValidator{decision: accepted("12:00")})

	_, err := uc.Execute(context.Background(), testRequest("11:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_Errors(t *testing.T) {
	uc, _ := newTestUseCase(&fakeRepo{}, &fakeValidator{decision: accepted("12:00")})
	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StaffID: 10, Date: tuesday, StartTime: "11:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	uc, _ = newTestUseCase(&fakeRepo{}, &fakeValidator{err: fmt.Errorf("%w: bad time", validate_booking.ErrInvalidInput)})
	_, err = uc.Execute(context.Background(), testRequest("11:00"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	uc, _ = newTestUseCase(&fakeRepo{}, &fakeValidator{err: validate_booking.ErrInternal})
	_, err = uc.Execute(context.Background(), testRequest("11:00"))
	assert.ErrorIs(t, err, ErrInternal)

	uc, _ = newTestUseCase(&fakeRepo{createErr: errors.New("db down")}, &fakeValidator{decision: accepted("12:00")})
	_, err = uc.Execute(context.Background(), testRequest("11:00"))
	assert.ErrorIs(t, err, ErrInternal)
}
