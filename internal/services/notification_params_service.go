package services

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"notificationservice/internal/models"
)

const (
	DefaultParamsCacheTTL = 15 * time.Minute
	paramsCacheKey        = "NotificationParams"
)

type NotificationParamsStore interface {
	GetLatest(ctx context.Context) (*models.NotificationParams, error)
}

// NotificationParamsService is a read-through cache over the latest
// notification_params row.
type NotificationParamsService interface {
	Get(ctx context.Context) (*models.NotificationParams, error)
	ClearCache()
}

type notificationParamsService struct {
	repo  NotificationParamsStore
	cache *cache.Cache
	group singleflight.Group
	ttl   time.Duration
	log   *zap.Logger
}

func NewNotificationParamsService(repo NotificationParamsStore, ttl time.Duration, log *zap.Logger) NotificationParamsService {
	if ttl <= 0 {
		ttl = DefaultParamsCacheTTL
	}
	return &notificationParamsService{
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
		log:   log.Named("notification-params"),
	}
}

// Get returns nil, nil when no params row exists. A missing row is not cached.
func (s *notificationParamsService) Get(ctx context.Context) (*models.NotificationParams, error) {
	if v, ok := s.cache.Get(paramsCacheKey); ok {
		return v.(*models.NotificationParams), nil
	}

	v, err, _ := s.group.Do(paramsCacheKey, func() (interface{}, error) {
		if v, ok := s.cache.Get(paramsCacheKey); ok {
			return v, nil
		}
		p, err := s.repo.GetLatest(ctx)
		if err != nil {
			return nil, err
		}
		if p == nil {
			s.log.Warn("no notification params found")
			return (*models.NotificationParams)(nil), nil
		}
		s.cache.Set(paramsCacheKey, p, s.ttl)
		s.log.Debug("notification params cached", zap.Duration("ttl", s.ttl))
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.NotificationParams), nil
}

func (s *notificationParamsService) ClearCache() {
	s.cache.Delete(paramsCacheKey)
	s.log.Info("notification params cache cleared")
}
