package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/psqlbuilder"
)

// pgExclusionViolation код ошибки Postgres при нарушении EXCLUDE-ограничения
const pgExclusionViolation = "23P01"

var bookingColumns = []string{
	"b.id",
	"b.user_id",
	"b.service_id",
	"b.staff_id",
	"b.booking_date",
	"b.start_time",
	"b.end_time",
	"b.status",
	"b.reminder_sent",
	"b.notes",
	"b.cancellation_reason",
	"b.cancelled_at",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Пересечение с другим активным бронированием специалиста отклоняется ограничением
// bookings_no_overlap и возвращается как ErrSlotNotAvailable
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"service_id",
			"staff_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"reminder_sent",
			"notes",
		).
		Values(
			booking.UserID,
			booking.ServiceID,
			booking.StaffID,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.ReminderSent,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgExclusionViolation {
			return nil, fmt.Errorf("%w: Create - staff=%d date=%s start=%s",
				ErrSlotNotAvailable, booking.StaffID, booking.BookingDate.Format(domain.DateFormat), booking.StartTime)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByStaffAndDate получает бронирования специалиста на дату, отсортированные по времени начала
// Внутри транзакции строки блокируются (FOR UPDATE) для повторной проверки пересечений перед вставкой
func (r *Repository) GetByStaffAndDate(ctx context.Context, staffID int64, date time.Time, excludeCancelled bool) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.staff_id": staffID}).
		Where(squirrel.Eq{"b.booking_date": date.Format(domain.DateFormat)}).
		OrderBy("b.start_time ASC")

	if excludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.status": statusStrings(domain.InactiveStatuses)})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaffAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaffAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByUserID получает бронирования клиента, новые первыми
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.user_id": userID}).
		OrderBy("b.booking_date DESC", "b.start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": string(*status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, "UpdateStatus", query, args)
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, "Cancel", query, args)
}

// FindReminderCandidates возвращает подтвержденные бронирования без напоминания в окне [start, end)
func (r *Repository) FindReminderCandidates(ctx context.Context, window domain.ReminderWindow) ([]*domain.ReminderCandidate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := candidatesQuery().
		Where(squirrel.Eq{"b.status": domain.StatusConfirmed}).
		Where(squirrel.Eq{"b.reminder_sent": false}).
		Where(squirrel.GtOrEq{"b.booking_date": window.Start.Format(domain.DateFormat)}).
		Where(squirrel.Lt{"b.booking_date": window.End.Format(domain.DateFormat)}).
		OrderBy("b.booking_date ASC", "b.start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindReminderCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindReminderCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	candidates := make([]*domain.ReminderCandidate, 0)
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: FindReminderCandidates - scan row: %v", ErrScanRow, err)
		}
		candidates = append(candidates, candidate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindReminderCandidates - rows error: %v", ErrScanRow, err)
	}

	return candidates, nil
}

// GetReminderCandidate получает бронирование с названиями услуги и специалиста (для ручной отправки)
func (r *Repository) GetReminderCandidate(ctx context.Context, id int64) (*domain.ReminderCandidate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := candidatesQuery().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetReminderCandidate - build select query: %v", ErrBuildQuery, err)
	}

	candidate, err := scanCandidate(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetReminderCandidate - scan row: %v", ErrScanRow, err)
	}

	return candidate, nil
}

// MarkReminderSent атомарно переводит reminder_sent false -> true
// Возвращает false, если флаг уже был выставлен (другим экземпляром или предыдущим сканом)
func (r *Repository) MarkReminderSent(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("reminder_sent", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"reminder_sent": false}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

// SetReminderSent безусловно выставляет reminder_sent = true (ручная отправка)
func (r *Repository) SetReminderSent(ctx context.Context, id int64) error {
	return r.setReminderSent(ctx, "SetReminderSent", id, true)
}

// ResetReminderSent сбрасывает reminder_sent (операция оператора)
func (r *Repository) ResetReminderSent(ctx context.Context, id int64) error {
	return r.setReminderSent(ctx, "ResetReminderSent", id, false)
}

func (r *Repository) setReminderSent(ctx context.Context, method string, id int64, sent bool) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("reminder_sent", sent).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	return r.execAffectingOne(ctx, method, query, args)
}

// CountReminderStats считает подтвержденные бронирования окна и отправленные по ним напоминания
func (r *Repository) CountReminderStats(ctx context.Context, window domain.ReminderWindow) (*domain.ReminderStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE reminder_sent)",
	).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.GtOrEq{"booking_date": window.Start.Format(domain.DateFormat)}).
		Where(squirrel.Lt{"booking_date": window.End.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountReminderStats - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.ReminderStats
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&stats.TotalBookings, &stats.RemindersSent); err != nil {
		return nil, fmt.Errorf("%w: CountReminderStats - scan row: %v", ErrScanRow, err)
	}
	stats.PendingReminders = stats.TotalBookings - stats.RemindersSent

	return &stats, nil
}

func (r *Repository) execAffectingOne(ctx context.Context, method, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func candidatesQuery() squirrel.SelectBuilder {
	columns := append(append([]string{}, bookingColumns...), "s.name", "st.name")
	return psqlbuilder.Select(columns...).
		From("bookings b").
		Join("services s ON s.id = b.service_id").
		Join("staff st ON st.id = b.staff_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func bookingDest(b *domain.Booking, createdAt, updatedAt *sql.NullTime) []interface{} {
	return []interface{}{
		&b.ID,
		&b.UserID,
		&b.ServiceID,
		&b.StaffID,
		&b.BookingDate,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.ReminderSent,
		&b.Notes,
		&b.CancellationReason,
		&b.CancelledAt,
		createdAt,
		updatedAt,
	}
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(bookingDest(&booking, &createdAt, &updatedAt)...); err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func scanCandidate(row rowScanner) (*domain.ReminderCandidate, error) {
	var candidate domain.ReminderCandidate
	var createdAt, updatedAt sql.NullTime

	dest := append(bookingDest(&candidate.Booking, &createdAt, &updatedAt), &candidate.ServiceName, &candidate.StaffName)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	candidate.Booking.CreatedAt = createdAt.Time
	candidate.Booking.UpdatedAt = updatedAt.Time

	return &candidate, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
