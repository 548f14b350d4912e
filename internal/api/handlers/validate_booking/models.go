package validate_booking

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	validateBooking "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/validate_booking"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid booking date")
	errInvalidTime = errors.New("invalid start time")
)

// ValidateBookingRequest HTTP request model
type ValidateBookingRequest struct {
	ServiceID   int64   `json:"serviceId"`
	StaffID     int64   `json:"staffId"`
	BookingDate string  `json:"bookingDate"`
	StartTime   string  `json:"startTime"`
	Notes       *string `json:"notes,omitempty"`
}

// DecisionResponse решение по запросу на запись
type DecisionResponse struct {
	Accepted        bool   `json:"accepted"`
	Code            string `json:"code"`
	Reason          string `json:"reason,omitempty"`
	EndTime         string `json:"endTime,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	HoursUntilStart int    `json:"hoursUntilStart"`
}

// ToDomainRequest конвертирует HTTP запрос в domain модель
func (r *ValidateBookingRequest) ToDomainRequest(userID int64, loc *time.Location) (*domain.BookingRequest, error) {
	date, err := handlers.ParseDate(r.BookingDate, loc)
	if err != nil {
		return nil, errInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &domain.BookingRequest{
		UserID:    userID,
		ServiceID: r.ServiceID,
		StaffID:   r.StaffID,
		Date:      date,
		StartTime: startTime,
		Notes:     r.Notes,
	}, nil
}

// FromDecision конвертирует решение в HTTP response
func FromDecision(d *validateBooking.Decision) *DecisionResponse {
	return &DecisionResponse{
		Accepted:        d.Accepted,
		Code:            d.Code,
		Reason:          d.Reason,
		EndTime:         d.EndTime.String(),
		DurationMinutes: d.DurationMinutes,
		HoursUntilStart: d.HoursUntilStart,
	}
}
