package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"notificationservice/internal/models"
)

// RedisPublisher pushes each notification onto a redis list. Consumers pop
// from the other end (BRPOP), so the list is FIFO.
type RedisPublisher struct {
	client redis.Cmdable
	queue  string
}

func NewRedisPublisher(client redis.Cmdable, queue string) *RedisPublisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &RedisPublisher{client: client, queue: queue}
}

func (p *RedisPublisher) Publish(ctx context.Context, n *models.NotificationResponse) error {
	body, err := encode(n)
	if err != nil {
		return err
	}
	if err := p.client.LPush(ctx, p.queue, body).Err(); err != nil {
		return fmt.Errorf("redis lpush %s: %w", p.queue, err)
	}
	return nil
}
