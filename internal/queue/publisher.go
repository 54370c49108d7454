// Package queue hands deliverable notifications to the dispatch queue read by
// the email and sms workers.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"notificationservice/internal/metrics"
	"notificationservice/internal/models"
)

const (
	DriverRedis = "redis"
	DriverKafka = "kafka"

	DefaultQueueName = "notifications"
)

type Publisher interface {
	Publish(ctx context.Context, n *models.NotificationResponse) error
}

func encode(n *models.NotificationResponse) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("nil notification")
	}
	b, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encode notification %s: %w", n.ID, err)
	}
	return b, nil
}

type instrumented struct {
	next    Publisher
	driver  string
	metrics *metrics.Registry
}

// Instrumented counts publish outcomes per driver.
func Instrumented(next Publisher, driver string, m *metrics.Registry) Publisher {
	return &instrumented{next: next, driver: driver, metrics: m}
}

func (p *instrumented) Publish(ctx context.Context, n *models.NotificationResponse) error {
	if err := p.next.Publish(ctx, n); err != nil {
		p.metrics.ObservePublish(p.driver, metrics.OutcomeError)
		return err
	}
	p.metrics.ObservePublish(p.driver, metrics.OutcomeOK)
	return nil
}
