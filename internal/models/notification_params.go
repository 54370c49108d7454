package models

import "time"

// NotificationParams is the latest provider configuration row. The SMS sender
// reads it through the params cache.
type NotificationParams struct {
	ID int `json:"id"`

	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"-"`
	FromEmail    string `json:"from_email"`
	FromName     string `json:"from_name"`
	EnableSSL    bool   `json:"enable_ssl"`

	SmsProvider   string `json:"sms_provider"`
	SmsAccountSID string `json:"sms_account_sid"`
	SmsAuthToken  string `json:"-"`
	SmsFromNumber string `json:"sms_from_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
