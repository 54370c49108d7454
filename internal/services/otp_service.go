package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"notificationservice/internal/metrics"
	"notificationservice/internal/models"
	"notificationservice/internal/utils"
)

const DefaultOtpTTL = 60 * time.Minute

const (
	otpMessageInvalidType = "Invalid OTP function type: %s"
	otpMessageFailed      = "Failed to execute OTP function."
	otpMessageValidated   = "OTP validated successfully."
)

type OtpStore interface {
	Replace(ctx context.Context, otp *models.Otp) error
	FindByIDAndCode(ctx context.Context, id, code string) (*models.Otp, error)
	Consume(ctx context.Context, otp *models.Otp) (bool, error)
	DeleteMany(ctx context.Context, ids []string) error
}

type OtpService interface {
	CreateOtp(ctx context.Context, req models.CreateOtpRequest) (*models.OtpResponse, error)
	ValidateOtp(ctx context.Context, req models.ValidateOtpRequest) (*models.ValidateOtpResponse, error)
	DeleteManyOtp(ctx context.Context, req models.DeleteManyOtpRequest) error
}

type otpService struct {
	repo      OtpStore
	functions OtpFunctionHandler
	ttl       time.Duration
	metrics   *metrics.Registry
	log       *zap.Logger
	now       func() time.Time
	newCode   func() (string, error)
}

func NewOtpService(repo OtpStore, functions OtpFunctionHandler, ttl time.Duration, m *metrics.Registry, log *zap.Logger) OtpService {
	if ttl <= 0 {
		ttl = DefaultOtpTTL
	}
	return &otpService{
		repo:      repo,
		functions: functions,
		ttl:       ttl,
		metrics:   m,
		log:       log.Named("otp"),
		now:       time.Now,
		newCode:   utils.NewOtpCode,
	}
}

// CreateOtp issues a fresh code for req.ID. Any code issued earlier for the
// same id stops being valid.
func (s *otpService) CreateOtp(ctx context.Context, req models.CreateOtpRequest) (*models.OtpResponse, error) {
	code, err := s.newCode()
	if err != nil {
		s.metrics.ObserveOtp("create", metrics.OutcomeError)
		return nil, fmt.Errorf("generate otp code: %w", err)
	}

	now := s.now().UTC()
	otp := &models.Otp{
		ID:        req.ID,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Replace(ctx, otp); err != nil {
		s.metrics.ObserveOtp("create", metrics.OutcomeError)
		return nil, fmt.Errorf("save otp: %w", err)
	}

	s.log.Info("otp created",
		zap.String("id", req.ID),
		zap.String("type", req.Type),
		zap.String("purpose", req.Purpose),
		zap.Time("expires_at", otp.ExpiresAt),
	)
	s.metrics.ObserveOtp("create", metrics.OutcomeOK)
	return &models.OtpResponse{
		ID:        otp.ID,
		Code:      otp.Code,
		CreatedAt: otp.CreatedAt,
		ExpiresAt: otp.ExpiresAt,
	}, nil
}

// ValidateOtp consumes the code and runs the requested function for the
// subject. The code is deleted before the function runs, so a failed function
// still uses up the code.
func (s *otpService) ValidateOtp(ctx context.Context, req models.ValidateOtpRequest) (*models.ValidateOtpResponse, error) {
	fn, err := ParseOtpFunction(req.Type)
	if err != nil {
		s.metrics.ObserveOtp("validate", metrics.OutcomeRejected)
		return &models.ValidateOtpResponse{
			Success: false,
			Message: fmt.Sprintf(otpMessageInvalidType, req.Type),
		}, nil
	}

	otp, err := s.repo.FindByIDAndCode(ctx, req.ID, req.Code)
	if err != nil {
		s.metrics.ObserveOtp("validate", metrics.OutcomeError)
		return nil, fmt.Errorf("find otp: %w", err)
	}
	if otp == nil {
		s.metrics.ObserveOtp("validate", metrics.OutcomeNotFound)
		return nil, ErrOtpNotFound
	}

	if otp.IsExpired(s.now().UTC()) {
		if _, err := s.repo.Consume(ctx, otp); err != nil {
			s.metrics.ObserveOtp("validate", metrics.OutcomeError)
			return nil, fmt.Errorf("delete expired otp: %w", err)
		}
		s.metrics.ObserveOtp("validate", metrics.OutcomeExpired)
		return nil, ErrOtpExpired
	}

	consumed, err := s.repo.Consume(ctx, otp)
	if err != nil {
		s.metrics.ObserveOtp("validate", metrics.OutcomeError)
		return nil, fmt.Errorf("consume otp: %w", err)
	}
	if !consumed {
		s.metrics.ObserveOtp("validate", metrics.OutcomeNotFound)
		return nil, ErrOtpNotFound
	}

	ok, err := s.functions.Execute(ctx, fn, req.ID)
	if err != nil {
		s.metrics.ObserveOtp("validate", metrics.OutcomeError)
		return nil, fmt.Errorf("run %s: %w", fn, err)
	}
	if !ok {
		s.log.Warn("otp function failed", zap.String("id", req.ID), zap.Stringer("function", fn))
		s.metrics.ObserveOtp("validate", metrics.OutcomeRejected)
		return &models.ValidateOtpResponse{Success: false, Message: otpMessageFailed}, nil
	}

	s.log.Info("otp validated", zap.String("id", req.ID), zap.Stringer("function", fn))
	s.metrics.ObserveOtp("validate", metrics.OutcomeOK)
	return &models.ValidateOtpResponse{Success: true, Message: otpMessageValidated}, nil
}

func (s *otpService) DeleteManyOtp(ctx context.Context, req models.DeleteManyOtpRequest) error {
	if len(req.IDs) == 0 {
		return nil
	}
	if err := s.repo.DeleteMany(ctx, req.IDs); err != nil {
		s.metrics.ObserveOtp("delete_many", metrics.OutcomeError)
		return fmt.Errorf("delete otps: %w", err)
	}
	s.metrics.ObserveOtp("delete_many", metrics.OutcomeOK)
	return nil
}
