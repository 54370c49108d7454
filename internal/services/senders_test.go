package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notificationservice/internal/models"
	"notificationservice/internal/templates"
)

func newTestEmailService(sender *fakeMailSender, renderer EmailRenderer) *emailService {
	svc := NewEmailService(SMTPSettings{
		Host:      "smtp.example.com",
		Port:      587,
		FromEmail: "no-reply@example.com",
		FromName:  "Example",
	}, renderer, zap.NewNop()).(*emailService)
	svc.sender = sender
	return svc
}

func TestSendForgetPasswordEmail(t *testing.T) {
	sender := &fakeMailSender{}
	renderer := &fakeRenderer{out: "<p>code 123456</p>"}
	svc := newTestEmailService(sender, renderer)

	require.NoError(t, svc.SendForgetPasswordEmail(context.Background(), "alice@example.com", "123456"))

	assert.Equal(t, "forget_password", renderer.name)
	assert.Equal(t, map[string]string{"email": "alice@example.com", "code": "123456"}, renderer.vars)

	require.Len(t, sender.sent, 1)
	m := sender.sent[0]
	assert.Equal(t, []string{"alice@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Password Reset Request"}, m.GetHeader("Subject"))
	assert.Contains(t, m.GetHeader("From")[0], "no-reply@example.com")

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "code 123456")
}

func TestSendForgetPasswordEmail_TemplateMissing(t *testing.T) {
	sender := &fakeMailSender{}
	svc := newTestEmailService(sender, &fakeRenderer{err: templates.ErrTemplateNotFound})

	err := svc.SendForgetPasswordEmail(context.Background(), "alice@example.com", "123456")
	assert.ErrorIs(t, err, templates.ErrTemplateNotFound)
	assert.Empty(t, sender.sent)
}

func TestSendEmail_DialFailure(t *testing.T) {
	boom := errors.New("connection refused")
	svc := newTestEmailService(&fakeMailSender{err: boom}, &fakeRenderer{})

	assert.ErrorIs(t, svc.SendEmail(context.Background(), "a@b.c", "hi", "<p>hi</p>"), boom)
}

func twilioParams() *models.NotificationParams {
	return &models.NotificationParams{
		ID:            1,
		SmsProvider:   "Twilio",
		SmsAccountSID: "AC123",
		SmsAuthToken:  "secret",
		SmsFromNumber: "+15550001111",
	}
}

func TestSendForgetPasswordSms(t *testing.T) {
	gateway := &fakeGateway{}
	renderer := &fakeRenderer{out: "Your reset code is 654321"}
	svc := &smsService{
		params:    &fakeParamsService{params: twilioParams()},
		templates: renderer,
		gateway:   gateway,
		log:       zap.NewNop(),
	}

	require.NoError(t, svc.SendForgetPasswordSms(context.Background(), "+77001112233", "654321"))
	assert.Equal(t, "forget_password", renderer.name)
	assert.Equal(t, map[string]string{"code": "654321"}, renderer.vars)

	require.Len(t, gateway.sent, 1)
	msg := gateway.sent[0]
	assert.Equal(t, "AC123", msg.AccountSID)
	assert.Equal(t, "secret", msg.AuthToken)
	assert.Equal(t, "+15550001111", msg.From)
	assert.Equal(t, "+77001112233", msg.To)
	assert.Equal(t, "Your reset code is 654321", msg.Body)
}

func TestSendSms_Failures(t *testing.T) {
	ctx := context.Background()

	svc := &smsService{params: &fakeParamsService{}, gateway: &fakeGateway{}, log: zap.NewNop()}
	assert.ErrorIs(t, svc.SendSms(ctx, "+1", "hi"), ErrNotificationParamsMissing)

	p := twilioParams()
	p.SmsProvider = "nexmo"
	svc = &smsService{params: &fakeParamsService{params: p}, gateway: &fakeGateway{}, log: zap.NewNop()}
	assert.ErrorIs(t, svc.SendSms(ctx, "+1", "hi"), ErrUnsupportedSmsProvider)

	boom := errors.New("twilio 500")
	svc = &smsService{params: &fakeParamsService{params: twilioParams()}, gateway: &fakeGateway{err: boom}, log: zap.NewNop()}
	assert.ErrorIs(t, svc.SendSms(ctx, "+1", "hi"), boom)

	svc = &smsService{params: &fakeParamsService{err: boom}, gateway: &fakeGateway{}, log: zap.NewNop()}
	assert.ErrorIs(t, svc.SendSms(ctx, "+1", "hi"), boom)
}
