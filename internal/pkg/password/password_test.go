package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	prev := Cost
	Cost = bcrypt.MinCost
	t.Cleanup(func() { Cost = prev })

	hash, err := Hash("Vgt@2024x")
	require.NoError(t, err)
	assert.NotEqual(t, "Vgt@2024x", hash)
	assert.True(t, Verify("Vgt@2024x", hash))
	assert.False(t, Verify("vgt@2024x", hash))
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
