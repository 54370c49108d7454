package services

import (
	"context"
	"fmt"
	"strings"
)

type OtpFunction int

const (
	OtpFunctionEmailVerification OtpFunction = iota + 1
	OtpFunctionSmsVerification
	OtpFunctionResetPassword
)

var otpFunctionNames = map[OtpFunction]string{
	OtpFunctionEmailVerification: "emailVerification",
	OtpFunctionSmsVerification:   "smsVerification",
	OtpFunctionResetPassword:     "resetPassword",
}

func (f OtpFunction) String() string {
	if name, ok := otpFunctionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("OtpFunction(%d)", int(f))
}

// ParseOtpFunction is the only place a caller-supplied type becomes an
// OtpFunction. Matching ignores case.
func ParseOtpFunction(name string) (OtpFunction, error) {
	for f, n := range otpFunctionNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidOtpFunction, name)
}

type OtpFunctionHandler interface {
	Execute(ctx context.Context, fn OtpFunction, id string) (bool, error)
}

type otpFunctionHandler struct {
	verification BusinessVerificationService
	resets       PasswordResetService
}

func NewOtpFunctionHandler(verification BusinessVerificationService, resets PasswordResetService) OtpFunctionHandler {
	return &otpFunctionHandler{verification: verification, resets: resets}
}

func (h *otpFunctionHandler) Execute(ctx context.Context, fn OtpFunction, id string) (bool, error) {
	switch fn {
	case OtpFunctionEmailVerification:
		return h.verification.VerifyEmail(ctx, id)
	case OtpFunctionSmsVerification:
		return h.verification.VerifyPhone(ctx, id)
	case OtpFunctionResetPassword:
		if _, err := h.resets.Issue(ctx, id); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrInvalidOtpFunction, fn)
	}
}
