package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"notificationservice/internal/utils"
)

const smsProviderTwilio = "twilio"

type smsGateway interface {
	SendSMS(ctx context.Context, msg utils.SmsMessage) (*utils.SendSMSResponse, error)
}

type SmsRenderer interface {
	RenderSms(ctx context.Context, name string, variables map[string]string) (string, error)
}

type SmsService interface {
	SendSms(ctx context.Context, phone, message string) error
	SendForgetPasswordSms(ctx context.Context, phone, code string) error
}

type smsService struct {
	params    NotificationParamsService
	templates SmsRenderer
	gateway   smsGateway
	log       *zap.Logger
}

func NewSmsService(params NotificationParamsService, templates SmsRenderer, gateway *utils.Client, log *zap.Logger) SmsService {
	return &smsService{
		params:    params,
		templates: templates,
		gateway:   gateway,
		log:       log.Named("sms"),
	}
}

// SendSms sends message through the provider configured in the latest
// notification params.
func (s *smsService) SendSms(ctx context.Context, phone, message string) error {
	p, err := s.params.Get(ctx)
	if err != nil {
		return fmt.Errorf("load sms settings: %w", err)
	}
	if p == nil {
		return ErrNotificationParamsMissing
	}

	if !strings.EqualFold(p.SmsProvider, smsProviderTwilio) {
		s.log.Warn("sms provider not supported", zap.String("provider", p.SmsProvider))
		return fmt.Errorf("%w: %q", ErrUnsupportedSmsProvider, p.SmsProvider)
	}

	resp, err := s.gateway.SendSMS(ctx, utils.SmsMessage{
		AccountSID: p.SmsAccountSID,
		AuthToken:  p.SmsAuthToken,
		From:       p.SmsFromNumber,
		To:         phone,
		Body:       message,
	})
	if err != nil {
		s.log.Error("send sms failed", zap.String("phone", phone), zap.Error(err))
		return fmt.Errorf("send sms: %w", err)
	}
	s.log.Info("sms sent", zap.String("phone", phone), zap.String("sid", resp.SID), zap.String("status", resp.Status))
	return nil
}

func (s *smsService) SendForgetPasswordSms(ctx context.Context, phone, code string) error {
	body, err := s.templates.RenderSms(ctx, "forget_password", map[string]string{"code": code})
	if err != nil {
		return fmt.Errorf("render forget password sms: %w", err)
	}
	return s.SendSms(ctx, phone, body)
}
