package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notificationservice/internal/metrics"
	"notificationservice/internal/models"
	"notificationservice/internal/queue"
)

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, deliveredAt *time.Time) error
}

type NotificationService interface {
	// ProcessNotification stores the request and, for email and sms, hands it
	// to the delivery queue. It returns nil, nil for channels that are not
	// queued.
	ProcessNotification(ctx context.Context, template, channel, recipient string, payload json.RawMessage) (*models.NotificationResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
}

type notificationService struct {
	repo    NotificationStore
	queue   queue.Publisher
	metrics *metrics.Registry
	log     *zap.Logger
	now     func() time.Time
}

func NewNotificationService(repo NotificationStore, publisher queue.Publisher, m *metrics.Registry, log *zap.Logger) NotificationService {
	return &notificationService{
		repo:    repo,
		queue:   publisher,
		metrics: m,
		log:     log.Named("notification"),
		now:     time.Now,
	}
}

func (s *notificationService) ProcessNotification(ctx context.Context, template, channel, recipient string, payload json.RawMessage) (*models.NotificationResponse, error) {
	if strings.TrimSpace(template) == "" || strings.TrimSpace(channel) == "" ||
		strings.TrimSpace(recipient) == "" || len(payload) == 0 {
		s.metrics.ObserveNotification(channel, metrics.OutcomeRejected)
		return nil, ErrInvalidNotification
	}

	n := models.NewNotification(template, channel, recipient, payload, s.now().UTC())
	if err := s.repo.Create(ctx, n); err != nil {
		s.metrics.ObserveNotification(channel, metrics.OutcomeError)
		return nil, fmt.Errorf("save notification: %w", err)
	}

	if !n.Queued() {
		s.log.Debug("stored notification", zap.String("id", n.ID.String()), zap.String("channel", channel))
		s.metrics.ObserveNotification(channel, metrics.OutcomeAccepted)
		return nil, nil
	}

	resp := n.Response()
	if err := s.queue.Publish(ctx, resp); err != nil {
		s.metrics.ObserveNotification(channel, metrics.OutcomeError)
		return nil, fmt.Errorf("publish notification %s: %w", n.ID, err)
	}
	if err := s.repo.UpdateStatus(ctx, n.ID, models.NotificationStatusPushed, nil); err != nil {
		s.metrics.ObserveNotification(channel, metrics.OutcomeError)
		return nil, fmt.Errorf("mark notification %s pushed: %w", n.ID, err)
	}

	s.log.Info("notification pushed",
		zap.String("id", n.ID.String()),
		zap.String("template", template),
		zap.String("channel", channel),
	)
	s.metrics.ObserveNotification(channel, metrics.OutcomeOK)
	return resp, nil
}

func (s *notificationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}
