package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	cancellation CancellationPolicy
	resolver     SlotResolver
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
// location часовой пояс клиники, в котором интерпретируются дата и время записи
func NewService(
	bookingRepo BookingRepository,
	cancellation CancellationPolicy,
	resolver SlotResolver,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		cancellation: cancellation,
		resolver:     resolver,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только своё бронирование, сотрудник клиники - любое
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := checkAccess(booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBookedSlots возвращает занятые интервалы специалиста на дату
func (s *Service) GetBookedSlots(ctx context.Context, staffID int64, date time.Time) (*models.BookedSlotsResponse, error) {
	s.logger.Info("GetBookedSlots: staff=%d, date=%s", staffID, date.Format(domain.DateFormat))

	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	slots, err := s.resolver.ComputeBookedSlots(ctx, staffID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookedSlots - compute slots: %v", ErrInternal, err)
	}

	return models.FromDomainBookedSlots(staffID, date, slots), nil
}

// Cancel отменяет бронирование
// Клиент может отменить своё бронирование не позже окна бесплатной отмены
// Сотрудник клиники может отменить любое бронирование в любой момент
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d, privileged=%t", bookingID, req.Actor.UserID, req.Actor.Privileged)

	if len(req.CancellationReason) > domain.MaxCancellationReason {
		return nil, fmt.Errorf("%w: cancellation reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReason)
	}

	// 1. Получаем бронирование
	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права доступа
	if err := checkAccess(booking, req.Actor); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.Actor.UserID, bookingID)
		return nil, err
	}

	// 3. Проверяем статус
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	// 4. Окно бесплатной отмены (только для клиента)
	if !req.Actor.Privileged {
		instant, err := booking.StartsAt(s.location)
		if err != nil {
			return nil, fmt.Errorf("%w: Cancel - booking start: %v", ErrInternal, err)
		}

		decision := s.cancellation.CanCancelFree(ctx, instant, s.timeProvider.Now())
		if !decision.CanCancel {
			s.logger.Warn("Cancel: booking id=%d inside cancellation window, %d hours remaining",
				bookingID, decision.HoursRemaining)
			return nil, &CancellationWindowError{Decision: decision}
		}
	}

	// 5. Отменяем
	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: booking id=%d cancelled", bookingID)

	cancelled, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(cancelled), nil
}

// UpdateStatus обновляет статус бронирования (операция сотрудника клиники)
// Отмена выполняется через Cancel, чтобы сохранить причину
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: booking id=%d, status=%s", bookingID, req.Status)

	status, err := models.ToDomainBookingStatus(req.Status)
	if err != nil || status == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return ErrInvalidStatus
	}

	booking, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return err
	}

	if !booking.IsActive() {
		s.logger.Warn("UpdateStatus: booking id=%d is cancelled", bookingID)
		return ErrInvalidStatus
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, status); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	return nil
}

func (s *Service) getBooking(ctx context.Context, method string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", method, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return booking, nil
}

// checkAccess клиент видит только свои бронирования
func checkAccess(booking *domain.Booking, actor models.Actor) error {
	if actor.Privileged || booking.UserID == actor.UserID {
		return nil
	}
	return ErrAccessDenied
}
