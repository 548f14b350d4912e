package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Причины отказа, возвращаемые клиенту
const (
	ReasonServiceNotBookable  = "service not bookable on that day"
	ReasonOutsideServiceHours = "requested time does not fit into the service hours"
	ReasonStaffNotWorking     = "staff member does not work on that day"
	ReasonOutsideStaffHours   = "requested time does not fit into the staff member's working hours"
)

// ErrInternal возвращается при ошибках чтения бронирований
var ErrInternal = errors.New("availability: internal error")

// Resolver проверяет попадание запрошенного интервала в расписание услуги и специалиста
type Resolver struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewResolver создает новый экземпляр резолвера
func NewResolver(bookingRepo BookingRepository, logger Logger) *Resolver {
	return &Resolver{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// ComputeBookedSlots возвращает занятые интервалы специалиста на дату (без отмененных)
func (r *Resolver) ComputeBookedSlots(ctx context.Context, staffID int64, date time.Time) ([]domain.BookedSlot, error) {
	bookings, err := r.bookingRepo.GetByStaffAndDate(ctx, staffID, date, true)
	if err != nil {
		r.logger.Error("ComputeBookedSlots: failed to get bookings for staff=%d date=%s: %v",
			staffID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ComputeBookedSlots - get bookings: %v", ErrInternal, err)
	}

	return BookedSlotsOf(bookings), nil
}

// BookedSlotsOf переводит активные бронирования в занятые интервалы
func BookedSlotsOf(bookings []*domain.Booking) []domain.BookedSlot {
	slots := make([]domain.BookedSlot, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		duration, err := b.DurationMinutes()
		if err != nil {
			continue
		}
		slots = append(slots, domain.BookedSlot{
			BookingID:       b.ID,
			StartTime:       b.StartTime,
			EndTime:         b.EndTime,
			DurationMinutes: duration,
		})
	}
	return slots
}

// IsSlotAvailable проверяет, что [start, start+duration] целиком помещается в одно окно услуги
// Окна не объединяются. Некорректное расписание услуги возвращается как domain.ErrConfiguration
func (r *Resolver) IsSlotAvailable(service *domain.Service, date time.Time, start types.TimeString) (bool, string, error) {
	availability, err := domain.ParseServiceAvailability(service.Availability)
	if err != nil {
		r.logger.Warn("IsSlotAvailable: service=%d has malformed availability: %v", service.ID, err)
		return false, "", err
	}

	windows, ok := availability.Windows(date.Weekday())
	if !ok {
		return false, ReasonServiceNotBookable, nil
	}

	end, err := start.AddMinutes(service.DurationMinutes)
	if err != nil {
		// интервал переходит через полночь
		return false, ReasonOutsideServiceHours, nil
	}

	for _, window := range windows {
		if window.Contains(start, end) {
			return true, "", nil
		}
	}

	return false, ReasonOutsideServiceHours, nil
}

// CheckStaffHours проверяет, что [start, end] помещается в рабочее время специалиста
// Специалист без настроенного расписания не ограничен
func (r *Resolver) CheckStaffHours(staff *domain.Staff, date time.Time, start, end types.TimeString) (bool, string, error) {
	hours, err := domain.ParseStaffWorkingHours(staff.WorkingHours)
	if err != nil {
		r.logger.Warn("CheckStaffHours: staff=%d has malformed working hours: %v", staff.ID, err)
		return false, "", err
	}

	if hours == nil {
		return true, "", nil
	}

	window, ok := hours.Window(date.Weekday())
	if !ok {
		return false, ReasonStaffNotWorking, nil
	}

	if !window.Contains(start, end) {
		return false, ReasonOutsideStaffHours, nil
	}

	return true, "", nil
}

// AvailableStartTimes возвращает все времена начала на сетке step минут внутри окон услуги
// (в пересечении с рабочим временем специалиста), не пересекающиеся с занятыми интервалами
func (r *Resolver) AvailableStartTimes(
	service *domain.Service,
	staff *domain.Staff,
	date time.Time,
	booked []domain.BookedSlot,
	step int,
) ([]domain.AvailableSlot, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: step must be positive", ErrInternal)
	}

	availability, err := domain.ParseServiceAvailability(service.Availability)
	if err != nil {
		return nil, err
	}
	hours, err := domain.ParseStaffWorkingHours(staff.WorkingHours)
	if err != nil {
		return nil, err
	}

	windows, ok := availability.Windows(date.Weekday())
	if !ok {
		return []domain.AvailableSlot{}, nil
	}

	if hours != nil {
		staffWindow, working := hours.Window(date.Weekday())
		if !working {
			return []domain.AvailableSlot{}, nil
		}
		windows = intersect(windows, staffWindow)
	}

	seen := make(map[types.TimeString]struct{})
	result := make([]domain.AvailableSlot, 0)

	for _, window := range windows {
		for current := window.Start; current.IsBefore(window.End); {
			end, err := current.AddMinutes(service.DurationMinutes)
			if err != nil || end.IsAfter(window.End) {
				break
			}

			if _, dup := seen[current]; !dup && !overlapsAny(booked, current, end) {
				seen[current] = struct{}{}
				result = append(result, domain.AvailableSlot{
					StartTime:       current,
					EndTime:         end,
					DurationMinutes: service.DurationMinutes,
				})
			}

			next, err := current.AddMinutes(step)
			if err != nil {
				break
			}
			current = next
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.IsBefore(result[j].StartTime)
	})

	return result, nil
}

// HasConflict проверяет пересечение [start, end) с занятыми интервалами
func HasConflict(booked []domain.BookedSlot, start, end types.TimeString) bool {
	return overlapsAny(booked, start, end)
}

func overlapsAny(booked []domain.BookedSlot, start, end types.TimeString) bool {
	for _, slot := range booked {
		if slot.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// intersect обрезает окна услуги рабочим временем специалиста
func intersect(windows []domain.TimeWindow, bound domain.TimeWindow) []domain.TimeWindow {
	result := make([]domain.TimeWindow, 0, len(windows))
	for _, w := range windows {
		start := w.Start
		if start.IsBefore(bound.Start) {
			start = bound.Start
		}
		end := w.End
		if end.IsAfter(bound.End) {
			end = bound.End
		}
		if start.IsBefore(end) {
			result = append(result, domain.TimeWindow{Start: start, End: end})
		}
	}
	return result
}
