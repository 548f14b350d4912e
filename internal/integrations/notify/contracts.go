package notify

import (
	"context"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// EmailSender отправляет email
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMSSender отправляет SMS
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// mailClient подмножество sendgrid.Client
type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// messageCreator подмножество twilio openapi.ApiService
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}
