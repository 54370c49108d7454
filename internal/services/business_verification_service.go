package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BusinessVerificationStore interface {
	GetBusinessIDByEmail(ctx context.Context, email string) (*uuid.UUID, error)
	GetBusinessIDByPhone(ctx context.Context, phone string) (*uuid.UUID, error)
	SetEmailVerified(ctx context.Context, businessID uuid.UUID) error
	SetPhoneVerified(ctx context.Context, businessID uuid.UUID) error
}

// BusinessVerificationService flags a business contact as verified. Both
// methods return false, nil when no business owns the contact.
type BusinessVerificationService interface {
	VerifyEmail(ctx context.Context, email string) (bool, error)
	VerifyPhone(ctx context.Context, phone string) (bool, error)
}

type businessVerificationService struct {
	repo BusinessVerificationStore
	log  *zap.Logger
}

func NewBusinessVerificationService(repo BusinessVerificationStore, log *zap.Logger) BusinessVerificationService {
	return &businessVerificationService{repo: repo, log: log.Named("business-verification")}
}

func (s *businessVerificationService) VerifyEmail(ctx context.Context, email string) (bool, error) {
	id, err := s.repo.GetBusinessIDByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("find business by email: %w", err)
	}
	if id == nil {
		s.log.Warn("no business for email", zap.String("email", email))
		return false, nil
	}
	if err := s.repo.SetEmailVerified(ctx, *id); err != nil {
		return false, err
	}
	s.log.Info("business email verified", zap.String("business_id", id.String()))
	return true, nil
}

func (s *businessVerificationService) VerifyPhone(ctx context.Context, phone string) (bool, error) {
	id, err := s.repo.GetBusinessIDByPhone(ctx, phone)
	if err != nil {
		return false, fmt.Errorf("find business by phone: %w", err)
	}
	if id == nil {
		s.log.Warn("no business for phone", zap.String("phone", phone))
		return false, nil
	}
	if err := s.repo.SetPhoneVerified(ctx, *id); err != nil {
		return false, err
	}
	s.log.Info("business phone verified", zap.String("business_id", id.String()))
	return true, nil
}
