package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "secret1")

	assert.True(t, VerifyPassword(hash, "secret1"))
	assert.False(t, VerifyPassword(hash, "secret2"))
}

func TestHashIsSalted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "secret1"))
	assert.True(t, VerifyPassword(h2, "secret1"))
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()

	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "secret1"))
	assert.False(t, VerifyPassword("", "secret1"))
}

func TestHashRejectsAbsurdCost(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("secret1", bcrypt.MaxCost+1)
	assert.Error(t, err)
}

func TestHashDefaultsCost(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret1", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}
