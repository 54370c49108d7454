package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultTwilioBaseURL = "https://api.twilio.com/2010-04-01"

// SmsMessage is one outbound text. Credentials travel with the message
// because they come from the notification_params row, not from config.
type SmsMessage struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
	Body       string
}

type SendSMSResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Client talks to the Twilio Messages API.
type Client struct {
	BaseURL string
	DryRun  bool
	HTTP    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, dryRun bool, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultTwilioBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		DryRun:  dryRun,
		HTTP:    &http.Client{Timeout: timeout},
		log:     log.Named("sms-gateway"),
	}
}

// SendSMS posts the message, or only logs it in dry-run mode or when
// credentials are missing.
func (c *Client) SendSMS(ctx context.Context, msg SmsMessage) (*SendSMSResponse, error) {
	if c.DryRun || msg.AccountSID == "" || msg.AuthToken == "" {
		c.log.Info("dry-run sms", zap.String("to", msg.To), zap.String("from", msg.From), zap.Int("length", len(msg.Body)))
		return &SendSMSResponse{Status: "dry-run"}, nil
	}

	apiURL := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.BaseURL, url.PathEscape(msg.AccountSID))
	form := url.Values{
		"To":   {msg.To},
		"From": {msg.From},
		"Body": {msg.Body},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(msg.AccountSID, msg.AuthToken)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send sms request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var result SendSMSResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("parse sms response (status %d): %w", resp.StatusCode, err)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sms gateway returned status %d: code=%d message=%q", resp.StatusCode, result.Code, result.Message)
	}

	c.log.Info("sms sent", zap.String("to", msg.To), zap.String("sid", result.SID), zap.String("status", result.Status))
	return &result, nil
}
