package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	first, err := GenerateResetToken()
	require.NoError(t, err)
	second, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, first, 40)
	assert.NotEqual(t, first, second)
}

func TestHashResetToken(t *testing.T) {
	raw, err := GenerateResetToken()
	require.NoError(t, err)

	digest := HashResetToken(raw)
	assert.Len(t, digest, 64)
	assert.NotEqual(t, raw, digest)
	// Matching is done on digest equality; it must be deterministic.
	assert.Equal(t, digest, HashResetToken(raw))
}
