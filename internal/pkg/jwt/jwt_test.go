package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "alice@example.com", "CUSTOMER", testSecret, 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "CUSTOMER", claims.Role)
	assert.Equal(t, "alice@example.com", claims.Subject)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "alice@example.com", "CUSTOMER", testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(42, "alice@example.com", "CUSTOMER", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccessTokenGarbage(t *testing.T) {
	_, err := ValidateAccessToken("not-a-token", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "token-id-1", claims.TokenID)
}

// Access and refresh tokens are signed with different secrets, so one
// kind must not validate as the other.
func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	access, err := GenerateAccessToken(42, "alice@example.com", "CUSTOMER", "access-secret", 15)
	require.NoError(t, err)

	_, err = ValidateRefreshToken(access, "refresh-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
