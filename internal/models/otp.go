package models

import "time"

// Otp is the active one-time code for a subject id (email, phone or any
// caller-supplied key). Only the bcrypt hash of the code is stored.
type Otp struct {
	ID        string    `json:"id"`
	Code      string    `json:"-"`
	CodeHash  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (o *Otp) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

type CreateOtpRequest struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Purpose string `json:"purpose"`
}

type ValidateOtpRequest struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Type string `json:"type"`
}

type DeleteManyOtpRequest struct {
	IDs []string `json:"ids"`
}

type OtpResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ValidateOtpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
