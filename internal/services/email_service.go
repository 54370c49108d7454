package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const forgetPasswordSubject = "Password Reset Request"

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailRenderer renders a named email template inside the shared layout.
type EmailRenderer interface {
	RenderEmail(ctx context.Context, name string, variables map[string]string) (string, error)
}

type EmailService interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
	SendForgetPasswordEmail(ctx context.Context, email, code string) error
}

type SMTPSettings struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromEmail string
	FromName  string
}

type emailService struct {
	sender    mailSender
	templates EmailRenderer
	from      string
	fromName  string
	log       *zap.Logger
}

func NewEmailService(smtp SMTPSettings, templates EmailRenderer, log *zap.Logger) EmailService {
	return &emailService{
		sender:    gomail.NewDialer(smtp.Host, smtp.Port, smtp.User, smtp.Password),
		templates: templates,
		from:      smtp.FromEmail,
		fromName:  smtp.FromName,
		log:       log.Named("email"),
	}
}

func (s *emailService) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	if s.fromName != "" {
		m.SetAddressHeader("From", s.from, s.fromName)
	} else {
		m.SetHeader("From", s.from)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.sender.DialAndSend(m); err != nil {
		s.log.Error("send email failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}
	s.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (s *emailService) SendForgetPasswordEmail(ctx context.Context, email, code string) error {
	body, err := s.templates.RenderEmail(ctx, "forget_password", map[string]string{
		"email": email,
		"code":  code,
	})
	if err != nil {
		return fmt.Errorf("render forget password email: %w", err)
	}
	return s.SendEmail(ctx, email, forgetPasswordSubject, body)
}
