package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/catalog"
)

// UseCase use case для получения свободного времени записи
type UseCase struct {
	policies     PolicyProvider
	catalogRepo  CatalogRepository
	resolver     SlotResolver
	slotStep     int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. slotStep шаг сетки в минутах
func NewUseCase(
	policies PolicyProvider,
	catalogRepo CatalogRepository,
	resolver SlotResolver,
	slotStep int,
	logger Logger,
) *UseCase {
	return &UseCase{
		policies:     policies,
		catalogRepo:  catalogRepo,
		resolver:     resolver,
		slotStep:     slotStep,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает времена начала, на которые запись будет принята
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, staff=%d, date=%s",
		req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
		Slots:     []Slot{},
	}

	// 2. Онлайн-запись выключена - свободных слотов нет
	policy := uc.policies.GetPolicy(ctx)
	if !policy.AllowOnlineBooking {
		uc.logger.Info("GetAvailableSlots: online booking is disabled")
		return response, nil
	}

	// 3. Услуга и специалист
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		return nil, ErrServiceNotFound
	}

	staff, err := uc.catalogRepo.GetStaffByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.IsActive {
		return nil, ErrStaffNotFound
	}

	// 4. Занятые интервалы
	booked, err := uc.resolver.ComputeBookedSlots(ctx, req.StaffID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get booked slots: %v", ErrInternal, err)
	}

	// 5. Сетка свободного времени
	slots, err := uc.resolver.AvailableStartTimes(service, staff, req.Date, booked, uc.slotStep)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			uc.logger.Warn("GetAvailableSlots: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	// 6. Ограничения политики
	response.Slots = filterByPolicy(slots, req.Date, uc.timeProvider.Now(), policy)

	uc.logger.Info("GetAvailableSlots: %d slots available", len(response.Slots))
	return response, nil
}
