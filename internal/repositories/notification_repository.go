package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"notificationservice/internal/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	const q = `
		INSERT INTO notifications
			(id, template, channel, retry_count, recipient, payload, requested_at, delivered_at, status)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9)
	`
	if _, err := r.DB.ExecContext(ctx, q,
		n.ID, n.Template, n.Channel, n.RetryCount, n.Recipient, string(n.Payload), n.RequestedAt, n.DeliveredAt, n.Status,
	); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	const q = `
		SELECT id, template, channel, retry_count, recipient, payload, requested_at, delivered_at, status
		FROM notifications
		WHERE id = $1
	`
	var (
		n           models.Notification
		payload     []byte
		deliveredAt sql.NullTime
	)
	if err := r.DB.QueryRowContext(ctx, q, id).Scan(
		&n.ID, &n.Template, &n.Channel, &n.RetryCount, &n.Recipient, &payload, &n.RequestedAt, &deliveredAt, &n.Status,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	n.Payload = payload
	if deliveredAt.Valid {
		n.DeliveredAt = &deliveredAt.Time
	}
	return &n, nil
}

func (r *NotificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, deliveredAt *time.Time) error {
	const q = `
		UPDATE notifications
		SET status = $1, delivered_at = $2
		WHERE id = $3
	`
	if _, err := r.DB.ExecContext(ctx, q, status, deliveredAt, id); err != nil {
		return fmt.Errorf("update notification status: %w", err)
	}
	return nil
}
