package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExpired  = errors.New("expired")

	ErrNotificationNotFound  = fmt.Errorf("notification %w", ErrNotFound)
	ErrOtpNotFound           = fmt.Errorf("otp %w", ErrNotFound)
	ErrPasswordResetNotFound = fmt.Errorf("password reset request %w", ErrNotFound)

	ErrOtpExpired           = fmt.Errorf("otp %w", ErrExpired)
	ErrPasswordResetExpired = fmt.Errorf("password reset request %w", ErrExpired)

	ErrInvalidOtpFunction  = errors.New("invalid otp function")
	ErrInvalidNotification = errors.New("template, channel, recipient and payload are required")

	ErrNotificationParamsMissing = errors.New("notification params not configured")
	ErrUnsupportedSmsProvider    = errors.New("unsupported sms provider")
)
