package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		fullURL string
		host    string
	}{
		{"bare domain", "example.com", "https://example.com", "example.com"},
		{"with scheme", "http://example.com", "http://example.com", "example.com"},
		{"with path", "https://example.com/health", "https://example.com/health", "example.com"},
		{"with port", "example.com:8443", "https://example.com:8443", "example.com"},
		{"surrounding spaces", "  example.com  ", "https://example.com", "example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullURL, host, err := NormalizeTarget(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.fullURL, fullURL)
			assert.Equal(t, tt.host, host)
		})
	}
}

func TestNormalizeTargetEmpty(t *testing.T) {
	_, _, err := NormalizeTarget("   ")
	assert.ErrorIs(t, err, ErrEmptyTarget)
}

func TestNormalizeTargetNoHost(t *testing.T) {
	_, _, err := NormalizeTarget("https://")
	require.Error(t, err)
}
