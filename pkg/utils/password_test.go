package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "correct horse")

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	first, err := HashPassword("p1")
	require.NoError(t, err)
	second, err := HashPassword("p1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordRejectsBadFormat(t *testing.T) {
	for _, hash := range []string{"", "plaintext", "$bcrypt$x$y$z$w"} {
		_, err := VerifyPassword("p1", hash)
		assert.Error(t, err, hash)
	}
}
