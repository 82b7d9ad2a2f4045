package v1

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifiesOwnOutput(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPassword("admin123", hash))
	assert.False(t, CheckPassword("admin124", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPassword_SaltsEveryCall(t *testing.T) {
	h1, err := HashPassword("secret")
	require.NoError(t, err)
	h2, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("secret", h1))
	assert.True(t, CheckPassword("secret", h2))
}

func TestCheckPassword_MalformedCredential(t *testing.T) {
	assert.False(t, CheckPassword("whatever", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("whatever", ""))
}

func TestHashPassword_RejectsOverlongInput(t *testing.T) {
	// bcrypt caps input at 72 bytes.
	_, err := HashPassword(strings.Repeat("x", 100))
	assert.Error(t, err)
}
