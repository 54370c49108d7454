package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOtpCode(t *testing.T) {
	for i := 0; i < 2000; i++ {
		code, err := NewOtpCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, OtpCodeMin)
		assert.LessOrEqual(t, n, OtpCodeMax)
	}
}

func TestNewNumericCode_Bounds(t *testing.T) {
	code, err := NewNumericCode(7, 7)
	require.NoError(t, err)
	assert.Equal(t, "7", code)

	_, err = NewNumericCode(10, 1)
	assert.Error(t, err)
}
