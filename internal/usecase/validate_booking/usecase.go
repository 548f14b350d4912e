package validate_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/availability"
)

// UseCase проверяет запрос на бронирование без записи в хранилище
type UseCase struct {
	policies    PolicyProvider
	catalogRepo CatalogRepository
	resolver    SlotResolver
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil
func NewUseCase(
	policies PolicyProvider,
	catalogRepo CatalogRepository,
	resolver SlotResolver,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		policies:    policies,
		catalogRepo: catalogRepo,
		resolver:    resolver,
		metrics:     metrics,
		logger:      logger,
	}
}

// Validate принимает или отклоняет запрос. Ошибка возвращается только при
// некорректном запросе или недоступности источников данных
func (uc *UseCase) Validate(ctx context.Context, req *domain.BookingRequest, now time.Time) (*Decision, error) {
	uc.logger.Info("ValidateBooking: service=%d, staff=%d, date=%s, time=%s",
		req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)

	decision, err := uc.evaluate(ctx, req, now)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ObserveBookingDecision(decision.Code)
	}

	if decision.Accepted {
		uc.logger.Info("ValidateBooking: accepted, end=%s", decision.EndTime)
	} else {
		uc.logger.Info("ValidateBooking: rejected, code=%s reason=%q", decision.Code, decision.Reason)
	}

	return decision, nil
}

func (uc *UseCase) evaluate(ctx context.Context, req *domain.BookingRequest, now time.Time) (*Decision, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateBooking: invalid request: %v", err)
		return nil, err
	}

	// 2. Момент начала записи в часовом поясе даты
	instant, err := req.Instant()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Ограничения политики по времени
	policy := uc.policies.GetPolicy(ctx)
	if decision := checkTiming(policy, instant, now); decision != nil {
		return decision, nil
	}
	hours := hoursBetween(now, instant)

	// 4. Услуга и специалист
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil && !errors.Is(err, catalogRepo.ErrServiceNotFound) {
		uc.logger.Error("ValidateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service == nil || !service.IsActive {
		return reject(CodeServiceUnavailable, "service is not available for booking", hours), nil
	}

	staff, err := uc.catalogRepo.GetStaffByID(ctx, req.StaffID)
	if err != nil && !errors.Is(err, catalogRepo.ErrStaffNotFound) {
		uc.logger.Error("ValidateBooking: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if staff == nil || !staff.IsActive {
		return reject(CodeStaffUnavailable, "staff member is not available for booking", hours), nil
	}

	// 5. Расписание услуги
	ok, reason, err := uc.resolver.IsSlotAvailable(service, req.Date, req.StartTime)
	if err != nil {
		return configurationError(err, hours), nil
	}
	if !ok {
		return reject(CodeOutsideServiceHours, reason, hours), nil
	}

	end, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		return reject(CodeOutsideServiceHours, availability.ReasonOutsideServiceHours, hours), nil
	}

	// 6. Рабочее время специалиста
	ok, reason, err = uc.resolver.CheckStaffHours(staff, req.Date, req.StartTime, end)
	if err != nil {
		return configurationError(err, hours), nil
	}
	if !ok {
		return reject(CodeOutsideStaffHours, reason, hours), nil
	}

	// 7. Пересечение с активными бронированиями специалиста
	booked, err := uc.resolver.ComputeBookedSlots(ctx, req.StaffID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get booked slots: %v", ErrInternal, err)
	}
	if availability.HasConflict(booked, req.StartTime, end) {
		return reject(CodeSlotConflict, "requested time overlaps an existing booking", hours), nil
	}

	return accept(end, service.DurationMinutes, hours), nil
}

func configurationError(err error, hours int) *Decision {
	return reject(CodeConfigurationError, err.Error(), hours)
}
