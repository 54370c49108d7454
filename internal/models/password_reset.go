package models

import "time"

// PasswordResetRequest is the reset grant issued after a successful
// resetPassword OTP. At most one exists per subject id.
type PasswordResetRequest struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (p *PasswordResetRequest) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
