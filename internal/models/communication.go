package models

type ForgetPasswordEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ForgetPasswordSmsRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
}
