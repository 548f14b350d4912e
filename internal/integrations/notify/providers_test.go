package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeMailClient struct {
	status int
	err    error
	last   *mail.SGMailV3
}

func (f *fakeMailClient) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.last = email
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: "body"}, nil
}

type fakeCreator struct {
	err  error
	last *openapi.CreateMessageParams
}

func (f *fakeCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.last = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func TestNewSendersWithoutCredentials(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{}, nopLogger{}))
	assert.Nil(t, NewTwilioSender(TwilioConfig{AccountSID: "AC1"}, nopLogger{}))
}

func TestSendGridSender_Send(t *testing.T) {
	client := &fakeMailClient{status: 202}
	sender := &SendGridSender{client: client, fromEmail: "clinic@example.com", fromName: "Clinic", logger: nopLogger{}}

	err := sender.Send(context.Background(), EmailMessage{To: "anna@example.com", Subject: "Hi", Body: "text"})
	require.NoError(t, err)
	require.NotNil(t, client.last)
	assert.Equal(t, "Hi", client.last.Subject)
	assert.Equal(t, "clinic@example.com", client.last.From.Address)

	client.status = 401
	err = sender.Send(context.Background(), EmailMessage{To: "anna@example.com"})
	assert.ErrorIs(t, err, ErrProvider)

	client.err = errors.New("network")
	err = sender.Send(context.Background(), EmailMessage{To: "anna@example.com"})
	assert.ErrorIs(t, err, ErrProvider)
}

func TestTwilioSender_Send(t *testing.T) {
	creator := &fakeCreator{}
	sender := &TwilioSender{api: creator, from: "+15550009999", logger: nopLogger{}}

	require.NoError(t, sender.Send(context.Background(), "+15550001111", "Reminder"))
	require.NotNil(t, creator.last)
	assert.Equal(t, "+15550001111", *creator.last.To)
	assert.Equal(t, "+15550009999", *creator.last.From)
	assert.Equal(t, "Reminder", *creator.last.Body)

	creator.err = errors.New("invalid number")
	assert.ErrorIs(t, sender.Send(context.Background(), "+1", "x"), ErrProvider)
}
