package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelInApp = "in-app"
)

const (
	NotificationStatusSent   = "sent"
	NotificationStatusPushed = "pushed"
)

// Notification is one intake record. Payload is stored and forwarded as-is.
type Notification struct {
	ID          uuid.UUID       `json:"id"`
	Template    string          `json:"template"`
	Channel     string          `json:"channel"`
	RetryCount  int             `json:"retryCount"`
	Recipient   string          `json:"recipient"`
	Payload     json.RawMessage `json:"payload"`
	RequestedAt time.Time       `json:"requestedAt"`
	DeliveredAt *time.Time      `json:"deliveredAt,omitempty"`
	Status      string          `json:"status"`
}

func NewNotification(template, channel, recipient string, payload json.RawMessage, now time.Time) *Notification {
	return &Notification{
		ID:          uuid.New(),
		Template:    template,
		Channel:     channel,
		RetryCount:  0,
		Recipient:   recipient,
		Payload:     payload,
		RequestedAt: now,
		Status:      NotificationStatusSent,
	}
}

// Queued reports whether the channel is delivered through the dispatch queue.
func (n *Notification) Queued() bool {
	return n.Channel == ChannelEmail || n.Channel == ChannelSMS
}

func (n *Notification) Response() *NotificationResponse {
	return &NotificationResponse{
		ID:          n.ID,
		Template:    n.Template,
		Channel:     n.Channel,
		RetryCount:  n.RetryCount,
		Recipient:   n.Recipient,
		Payload:     n.Payload,
		RequestedAt: n.RequestedAt,
	}
}

// NotificationResponse is both the API response and the queue message body.
type NotificationResponse struct {
	ID          uuid.UUID       `json:"id"`
	Template    string          `json:"template"`
	Channel     string          `json:"channel"`
	RetryCount  int             `json:"retryCount"`
	Recipient   string          `json:"recipient"`
	Payload     json.RawMessage `json:"payload"`
	RequestedAt time.Time       `json:"requestedAt"`
}

type CreateNotificationRequest struct {
	Template  string          `json:"template" binding:"required"`
	Channel   string          `json:"channel" binding:"required"`
	Recipient string          `json:"recipient" binding:"required"`
	Payload   json.RawMessage `json:"payload" binding:"required"`
}
