package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	OtpCodeMin = 100000
	OtpCodeMax = 999999
)

// NewNumericCode returns a uniformly random integer in [lo, hi] as a decimal
// string.
func NewNumericCode(lo, hi int64) (string, error) {
	if hi < lo {
		return "", fmt.Errorf("invalid code range [%d, %d]", lo, hi)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(hi-lo+1))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return strconv.FormatInt(lo+n.Int64(), 10), nil
}

// NewOtpCode returns a six digit code; a leading zero is impossible.
func NewOtpCode() (string, error) {
	return NewNumericCode(OtpCodeMin, OtpCodeMax)
}
