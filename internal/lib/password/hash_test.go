package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompareHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		compare  string
		wantErr  bool
	}{
		{name: "matching password", password: "secret1", compare: "secret1", wantErr: false},
		{name: "wrong password", password: "secret1", compare: "wrong", wantErr: true},
		{name: "empty password matches itself", password: "", compare: "", wantErr: false},
		{name: "case sensitive", password: "Secret1", compare: "secret1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			require.NotEqual(t, tt.password, hash)

			err = CompareHash(hash, tt.compare)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetHash_DifferentSalts(t *testing.T) {
	first, err := GetHash("secret1")
	require.NoError(t, err)
	second, err := GetHash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, CompareHash(first, "secret1"))
	assert.NoError(t, CompareHash(second, "secret1"))
}
