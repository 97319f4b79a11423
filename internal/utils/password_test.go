package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("motdepasse123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "motdepasse123")

	ok, err := VerifyPassword("motdepasse123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("autremotdepasse", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("motdepasse123")
	require.NoError(t, err)
	h2, err := HashPassword("motdepasse123")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("x", "pas-un-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$c2VsJQ$aGFzaA")
	assert.Error(t, err)
}
