package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"notificationservice/internal/models"
)

const DefaultPasswordResetTTL = 60 * time.Minute

type PasswordResetStore interface {
	Replace(ctx context.Context, pr *models.PasswordResetRequest) error
	GetByID(ctx context.Context, id string) (*models.PasswordResetRequest, error)
}

type PasswordResetService interface {
	Issue(ctx context.Context, id string) (*models.PasswordResetRequest, error)
	Lookup(ctx context.Context, id string) (*models.PasswordResetRequest, error)
}

type passwordResetService struct {
	repo PasswordResetStore
	ttl  time.Duration
	log  *zap.Logger
	now  func() time.Time
}

func NewPasswordResetService(repo PasswordResetStore, ttl time.Duration, log *zap.Logger) PasswordResetService {
	if ttl <= 0 {
		ttl = DefaultPasswordResetTTL
	}
	return &passwordResetService{
		repo: repo,
		ttl:  ttl,
		log:  log.Named("password-reset"),
		now:  time.Now,
	}
}

// Issue grants a password reset to id, replacing any earlier grant.
func (s *passwordResetService) Issue(ctx context.Context, id string) (*models.PasswordResetRequest, error) {
	now := s.now().UTC()
	pr := &models.PasswordResetRequest{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Replace(ctx, pr); err != nil {
		return nil, fmt.Errorf("save password reset request: %w", err)
	}
	s.log.Info("password reset issued", zap.String("id", id), zap.Time("expires_at", pr.ExpiresAt))
	return pr, nil
}

func (s *passwordResetService) Lookup(ctx context.Context, id string) (*models.PasswordResetRequest, error) {
	pr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get password reset request: %w", err)
	}
	if pr == nil {
		return nil, ErrPasswordResetNotFound
	}
	if pr.IsExpired(s.now().UTC()) {
		return nil, ErrPasswordResetExpired
	}
	return pr, nil
}
