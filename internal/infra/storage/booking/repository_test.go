package booking

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

var bookingRowColumns = []string{
	"id", "user_id", "service_id", "staff_id", "booking_date", "start_time", "end_time",
	"status", "reminder_sent", "notes", "cancellation_reason", "cancelled_at", "created_at", "updated_at",
}

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, func() *dbmetrics.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), mock, func() *dbmetrics.DB { return wrapped }
}

func bookingRow(id int64, start, end string, status domain.BookingStatus, reminderSent bool) []driver.Value {
	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, int64(100), int64(3), int64(7), time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		start, end, string(status), reminderSent, nil, nil, nil, created, created,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := newRepo(t)
	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(int64(100), int64(3), int64(7), "2025-01-07", "10:00", "11:00", "CONFIRMED", false, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), created, created))

	booking, err := repo.Create(context.Background(), &domain.Booking{
		UserID:      100,
		ServiceID:   3,
		StaffID:     7,
		BookingDate: time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("10:00"),
		EndTime:     types.TimeString("11:00"),
		Status:      domain.StatusConfirmed,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), booking.ID)
	assert.Equal(t, created, booking.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})

	_, err := repo.Create(context.Background(), &domain.Booking{
		UserID:      100,
		ServiceID:   3,
		StaffID:     7,
		BookingDate: time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:30",
		EndTime:     "11:30",
		Status:      domain.StatusConfirmed,
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestRepository_Create_OtherError(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("INSERT INTO bookings").WillReturnError(errors.New("connection reset"))

	_, err := repo.Create(context.Background(), &domain.Booking{StartTime: "10:00", EndTime: "11:00"})

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotNotAvailable)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings b WHERE b.id = \\$1").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(bookingRow(5, "10:00:00", "11:00:00", domain.StatusConfirmed, false)...))

	booking, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, int64(5), booking.ID)
	assert.Equal(t, types.TimeString("10:00"), booking.StartTime)
	assert.Equal(t, types.TimeString("11:00"), booking.EndTime)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
	assert.Nil(t, booking.Notes)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings b").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_GetByStaffAndDate(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings b WHERE b.staff_id = \\$1 AND b.booking_date = \\$2 AND b.status NOT IN \\(\\$3\\) ORDER BY b.start_time ASC$").
		WithArgs(int64(7), "2025-01-07", "CANCELLED").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(bookingRow(1, "09:00:00", "10:00:00", domain.StatusConfirmed, false)...).
			AddRow(bookingRow(2, "10:00:00", "11:00:00", domain.StatusPending, false)...))

	bookings, err := repo.GetByStaffAndDate(context.Background(), 7, time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), true)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByUserID(t *testing.T) {
	repo, mock, _ := newRepo(t)
	status := domain.StatusConfirmed

	mock.ExpectQuery("SELECT (.+) FROM bookings b WHERE b.user_id = \\$1 AND b.status = \\$2 ORDER BY b.booking_date DESC, b.start_time DESC$").
		WithArgs(int64(100), "CONFIRMED").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(bookingRow(1, "10:00:00", "11:00:00", domain.StatusConfirmed, false)...))

	bookings, err := repo.GetByUserID(context.Background(), 100, &status)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, int64(100), bookings[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByStaffAndDate_LocksInTransaction(t *testing.T) {
	repo, mock, wrapped := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))
	mock.ExpectRollback()

	tx, err := wrapped().BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	bookings, err := repo.GetByStaffAndDate(ctx, 7, time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), true)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkReminderSent(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectExec("UPDATE bookings SET reminder_sent = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2 AND reminder_sent = \\$3").
		WithArgs(true, int64(9), false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET reminder_sent").
		WithArgs(true, int64(9), false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.MarkReminderSent(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.MarkReminderSent(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, claimed, "second mark must not claim again")
}

func TestRepository_ResetReminderSent_NotFound(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectExec("UPDATE bookings SET reminder_sent").
		WithArgs(false, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ResetReminderSent(context.Background(), 9)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_FindReminderCandidates(t *testing.T) {
	repo, mock, _ := newRepo(t)
	window := domain.NewReminderWindow(time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC), 24*time.Hour)

	columns := append(append([]string{}, bookingRowColumns...), "service_name", "staff_name")
	row := append(bookingRow(11, "10:00:00", "11:00:00", domain.StatusConfirmed, false), "Massage", "Dr. Lee")

	mock.ExpectQuery("JOIN services s ON s.id = b.service_id JOIN staff st ON st.id = b.staff_id").
		WithArgs("CONFIRMED", false, "2025-01-07", "2025-01-08").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(row...))

	candidates, err := repo.FindReminderCandidates(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(11), candidates[0].Booking.ID)
	assert.Equal(t, "Massage", candidates[0].ServiceName)
	assert.Equal(t, "Dr. Lee", candidates[0].StaffName)
}

func TestRepository_CountReminderStats(t *testing.T) {
	repo, mock, _ := newRepo(t)
	window := domain.NewReminderWindow(time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC), 24*time.Hour)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\), COUNT\\(\\*\\) FILTER \\(WHERE reminder_sent\\) FROM bookings").
		WithArgs("CONFIRMED", "2025-01-07", "2025-01-08").
		WillReturnRows(sqlmock.NewRows([]string{"total", "sent"}).AddRow(5, 3))

	stats, err := repo.CountReminderStats(context.Background(), window)
	require.NoError(t, err)
	assert.Equal(t, domain.ReminderStats{TotalBookings: 5, RemindersSent: 3, PendingReminders: 2}, *stats)
}
