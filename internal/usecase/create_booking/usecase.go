package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/availability"
	"github.com/m04kA/SMC-ClinicBookingService/internal/usecase/validate_booking"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	validator    Validator
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	validator Validator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		validator:    validator,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка выполняется без блокировок, запись в сериализуемой транзакции с повторной проверкой пересечений
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, service=%d, staff=%d, date=%s, time=%s",
		req.UserID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверка политики, расписания и занятости
	decision, err := uc.validator.Validate(ctx, req.toDomain(), uc.timeProvider.Now())
	if err != nil {
		if errors.Is(err, validate_booking.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("CreateBooking: validation error: %v", err)
		return nil, fmt.Errorf("%w: failed to validate booking: %v", ErrInternal, err)
	}

	if !decision.Accepted {
		uc.logger.Warn("CreateBooking: rejected, code=%s reason=%q", decision.Code, decision.Reason)
		return nil, &RejectionError{Decision: decision}
	}

	var result *domain.Booking

	// 3. Резервируем интервал в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Активные бронирования специалиста на дату с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByStaffAndDate(txCtx, req.StaffID, req.Date, true)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 3.2. Повторная проверка пересечения
		if availability.HasConflict(availability.BookedSlotsOf(bookings), req.StartTime, decision.EndTime) {
			uc.logger.Warn("CreateBooking: slot %s-%s taken since validation", req.StartTime, decision.EndTime)
			return ErrSlotNotAvailable
		}

		// 3.3. Создаем бронирование
		booking := &domain.Booking{
			UserID:      req.UserID,
			ServiceID:   req.ServiceID,
			StaffID:     req.StaffID,
			BookingDate: req.Date,
			StartTime:   req.StartTime,
			EndTime:     decision.EndTime,
			Status:      domain.StatusConfirmed,
			Notes:       req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: overlap rejected by storage constraint")
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		ServiceID:       result.ServiceID,
		StaffID:         result.StaffID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		DurationMinutes: decision.DurationMinutes,
		Status:          string(result.Status),
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
