package notify

import "context"

// StubSender пишет напоминания в лог вместо отправки
type StubSender struct {
	logger Logger
}

// NewStubSender создает заглушку отправителя
func NewStubSender(logger Logger) *StubSender {
	return &StubSender{logger: logger}
}

// Send реализует EmailSender
func (s *StubSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("StubSender: email to=%s subject=%q", msg.To, msg.Subject)
	return nil
}
