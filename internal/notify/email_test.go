package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "bot@example.com"}, nil)
	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "bot@example.com"}, nil)
	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "AppointmentBot" {
		t.Errorf("expected default from name, got %q", sender.fromName)
	}
}

type stubSendGrid struct {
	status int
	err    error
	last   *mail.SGMailV3
}

func (s *stubSendGrid) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	s.last = email
	if s.err != nil {
		return nil, s.err
	}
	return &rest.Response{StatusCode: s.status}, nil
}

func TestSendGridSender_Send(t *testing.T) {
	api := &stubSendGrid{status: 202}
	sender := &SendGridSender{client: api, fromEmail: "bot@example.com", fromName: "Bot", logger: logging.Default()}

	err := sender.Send(context.Background(), EmailMessage{To: "john@example.com", Subject: "Hi", Body: "Body"})
	require.NoError(t, err)
	require.NotNil(t, api.last)
	assert.Equal(t, "Hi", api.last.Subject)
}

func TestSendGridSender_SendFailures(t *testing.T) {
	logger := logging.Default()

	sender := &SendGridSender{client: &stubSendGrid{status: 500}, logger: logger}
	assert.Error(t, sender.Send(context.Background(), EmailMessage{To: "john@example.com"}))

	sender = &SendGridSender{client: &stubSendGrid{err: errors.New("network")}, logger: logger}
	assert.Error(t, sender.Send(context.Background(), EmailMessage{To: "john@example.com"}))

	sender = &SendGridSender{client: nil, logger: logger}
	assert.Error(t, sender.Send(context.Background(), EmailMessage{To: "john@example.com"}))

	sender = &SendGridSender{client: &stubSendGrid{status: 202}, logger: logger}
	assert.ErrorIs(t, sender.Send(context.Background(), EmailMessage{}), ErrMissingRecipient)
}

type stubSES struct {
	last *sesv2.SendEmailInput
	err  error
}

func (s *stubSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	s.last = params
	if s.err != nil {
		return nil, s.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	api := &stubSES{}
	sender := NewSESSender(api, SESConfig{FromEmail: "bot@example.com"}, nil)
	require.NotNil(t, sender)

	err := sender.Send(context.Background(), EmailMessage{To: "john@example.com", Subject: "Subject", Body: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "AppointmentBot <bot@example.com>", aws.ToString(api.last.FromEmailAddress))
	assert.Equal(t, []string{"john@example.com"}, api.last.Destination.ToAddresses)
	assert.Equal(t, "Body", aws.ToString(api.last.Content.Simple.Body.Text.Data))
}

func TestSESSender_SendError(t *testing.T) {
	sender := NewSESSender(&stubSES{err: errors.New("throttled")}, SESConfig{FromEmail: "bot@example.com"}, nil)
	assert.Error(t, sender.Send(context.Background(), EmailMessage{To: "john@example.com"}))
}

func TestNewSESSender_NilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{}, nil))
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)
	assert.NoError(t, sender.Send(context.Background(), EmailMessage{To: "recipient@example.com", Subject: "Test"}))
	assert.ErrorIs(t, sender.Send(context.Background(), EmailMessage{}), ErrMissingRecipient)
}

func TestSMTPSender_RequiresCredentials(t *testing.T) {
	assert.Nil(t, NewSMTPSender(SMTPConfig{FromEmail: "bot@gmail.com"}, nil))
	assert.Nil(t, NewSMTPSender(SMTPConfig{Password: "secret"}, nil))

	sender := NewSMTPSender(SMTPConfig{FromEmail: "bot@gmail.com", Password: "secret"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "smtp.gmail.com", sender.cfg.Host)
	assert.Equal(t, 587, sender.cfg.Port)
	assert.Equal(t, "bot@gmail.com", sender.cfg.Username)
}

func TestSMTPSender_SendComposesMessage(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{FromEmail: "bot@gmail.com", Password: "secret"}, nil)
	require.NotNil(t, sender)

	var gotFrom string
	var gotTo []string
	var payload string
	sender.send = func(ctx context.Context, from string, to []string, data []byte) error {
		gotFrom, gotTo, payload = from, to, string(data)
		return nil
	}

	err := sender.Send(context.Background(), EmailMessage{
		To:      "john@example.com",
		ToName:  "John Carter",
		Subject: ConfirmationSubject,
		Body:    "Dear John Carter,",
	})
	require.NoError(t, err)

	assert.Equal(t, "bot@gmail.com", gotFrom)
	assert.Equal(t, []string{"john@example.com"}, gotTo)
	assert.Contains(t, payload, "Subject: Your Hospital Appointment Confirmation\r\n")
	assert.Contains(t, payload, `To: "John Carter" <john@example.com>`)
	assert.Contains(t, payload, "Content-Type: text/plain")
	assert.True(t, strings.HasSuffix(payload, "Dear John Carter,"))
}

func TestSMTPSender_SendErrors(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{FromEmail: "bot@gmail.com", Password: "secret"}, nil)
	require.NotNil(t, sender)
	sender.send = func(context.Context, string, []string, []byte) error { return errors.New("535 bad credentials") }

	assert.Error(t, sender.Send(context.Background(), EmailMessage{To: "john@example.com"}))
	assert.Error(t, sender.Send(context.Background(), EmailMessage{To: "not an address"}))
	assert.ErrorIs(t, sender.Send(context.Background(), EmailMessage{}), ErrMissingRecipient)
}
