package codes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewResetCode()
		require.NoError(t, err)
		assert.Len(t, code, ResetCodeLength)
		for _, r := range code {
			assert.Contains(t, resetAlphabet, string(r))
		}
		seen[code] = true
	}
	// 50 кодов из 32^6 вариантов не должны совпасть
	assert.Greater(t, len(seen), 45)
}

func TestNewVerificationCode(t *testing.T) {
	code, err := NewVerificationCode()
	require.NoError(t, err)
	assert.Len(t, code, VerificationCodeLength)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestNewPassword(t *testing.T) {
	first, err := NewPassword()
	require.NoError(t, err)
	second, err := NewPassword()
	require.NoError(t, err)

	assert.Len(t, first, GeneratedPasswordLength)
	assert.NotEqual(t, first, second)
	assert.False(t, strings.ContainsAny(first, " \t\n"))
}
