// internal/utils/crypto_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(6)
	require.NoError(t, err)
	assert.Len(t, s, 6)
	assert.Regexp(t, "^[A-Z0-9]+$", s)
}

func TestGenerateRandomStringUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := GenerateRandomString(6)
		require.NoError(t, err)
		seen[s] = true
	}
	assert.Greater(t, len(seen), 95, "collisions should be rare")
}
