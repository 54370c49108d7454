package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"notificationservice/internal/models"
)

type NotificationParamsRepository struct {
	DB *sql.DB
}

func NewNotificationParamsRepository(db *sql.DB) *NotificationParamsRepository {
	return &NotificationParamsRepository{DB: db}
}

// GetLatest returns the newest params row, or nil, nil when the table is empty.
func (r *NotificationParamsRepository) GetLatest(ctx context.Context) (*models.NotificationParams, error) {
	const q = `
		SELECT id, smtp_host, smtp_port, smtp_user, smtp_password, from_email, from_name, enable_ssl,
			sms_provider, sms_account_sid, sms_auth_token, sms_from_number, created_at, updated_at
		FROM notification_params
		ORDER BY id DESC
		LIMIT 1
	`
	var p models.NotificationParams
	if err := r.DB.QueryRowContext(ctx, q).Scan(
		&p.ID, &p.SMTPHost, &p.SMTPPort, &p.SMTPUser, &p.SMTPPassword, &p.FromEmail, &p.FromName, &p.EnableSSL,
		&p.SmsProvider, &p.SmsAccountSID, &p.SmsAuthToken, &p.SmsFromNumber, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification params: %w", err)
	}
	return &p, nil
}
