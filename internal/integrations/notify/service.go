package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// Service доставляет напоминания по всем доступным каналам
type Service struct {
	email  EmailSender
	sms    SMSSender
	logger Logger
}

// NewService создает сервис уведомлений. Любой из отправителей может быть nil
func NewService(email EmailSender, sms SMSSender, logger Logger) *Service {
	return &Service{email: email, sms: sms, logger: logger}
}

// SendReminder отправляет напоминание. Достаточно одного успешного канала
func (s *Service) SendReminder(ctx context.Context, recipient domain.Recipient, reminder domain.Reminder) error {
	var (
		attempted int
		failures  []error
	)

	if s.email != nil && recipient.Email != "" {
		attempted++
		msg := EmailMessage{
			To:      recipient.Email,
			ToName:  recipient.Name,
			Subject: reminderSubject(reminder),
			Body:    reminderText(recipient, reminder),
			HTML:    reminderHTML(recipient, reminder),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Warn("SendReminder: email failed for booking=%d: %v", reminder.BookingID, err)
			failures = append(failures, err)
		}
	}

	if s.sms != nil && recipient.Phone != "" {
		attempted++
		if err := s.sms.Send(ctx, recipient.Phone, reminderText(recipient, reminder)); err != nil {
			s.logger.Warn("SendReminder: sms failed for booking=%d: %v", reminder.BookingID, err)
			failures = append(failures, err)
		}
	}

	if attempted == 0 {
		return fmt.Errorf("%w: user=%d", ErrNoChannel, recipient.UserID)
	}
	if len(failures) == attempted {
		return fmt.Errorf("%w: booking=%d: %v", ErrDeliveryFailed, reminder.BookingID, errors.Join(failures...))
	}

	return nil
}

func reminderSubject(r domain.Reminder) string {
	return fmt.Sprintf("Appointment reminder: %s on %s", r.ServiceName, r.Date.Format(domain.DateFormat))
}

func reminderText(recipient domain.Recipient, r domain.Reminder) string {
	var b strings.Builder
	if recipient.Name != "" {
		fmt.Fprintf(&b, "Hello, %s! ", recipient.Name)
	}
	fmt.Fprintf(&b, "Reminder: %s on %s at %s-%s",
		r.ServiceName, r.Date.Format(domain.DateFormat), r.StartTime, r.EndTime)
	if r.StaffName != "" {
		fmt.Fprintf(&b, " with %s", r.StaffName)
	}
	b.WriteString(".")
	return b.String()
}

func reminderHTML(recipient domain.Recipient, r domain.Reminder) string {
	return "<p>" + html.EscapeString(reminderText(recipient, r)) + "</p>"
}
