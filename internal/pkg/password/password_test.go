package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret-pass-123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass-123", hash)

	assert.True(t, Verify("secret-pass-123", hash))
	assert.False(t, Verify("wrong-password", hash))
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("secret-pass-123")
	require.NoError(t, err)
	b, err := Hash("secret-pass-123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashToken(t *testing.T) {
	a := HashToken("some-refresh-token")
	b := HashToken("some-refresh-token")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashToken("other-token"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("12345678"))
	assert.False(t, ValidatePassword("1234567"))
	assert.False(t, ValidatePassword(""))
}
