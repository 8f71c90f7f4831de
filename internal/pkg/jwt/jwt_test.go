package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendtrack/internal/pkg/jwt"
)

const (
	testSecret        = "test-secret"
	testRefreshSecret = "test-refresh-secret"
)

func Test_AccessToken_RoundTrip(t *testing.T) {
	token, err := jwt.GenerateAccessToken(7, "user@example.com", "Facilitator", testSecret, 15)
	require.NoError(t, err)

	claims, err := jwt.ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "Facilitator", claims.Role)
}

func Test_AccessToken_WrongSecret(t *testing.T) {
	token, err := jwt.GenerateAccessToken(7, "user@example.com", "Admin", testSecret, 15)
	require.NoError(t, err)

	_, err = jwt.ValidateAccessToken(token, "other-secret")
	require.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func Test_AccessToken_Expired(t *testing.T) {
	token, err := jwt.GenerateAccessToken(7, "user@example.com", "Admin", testSecret, -1)
	require.NoError(t, err)

	_, err = jwt.ValidateAccessToken(token, testSecret)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func Test_RefreshToken_RoundTrip(t *testing.T) {
	token, err := jwt.GenerateRefreshToken(7, "token-id-1", testRefreshSecret, 7)
	require.NoError(t, err)

	claims, err := jwt.ValidateRefreshToken(token, testRefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "token-id-1", claims.TokenID)
}

func Test_RefreshToken_NotValidAsAccessTokenSecret(t *testing.T) {
	token, err := jwt.GenerateRefreshToken(7, "token-id-2", testRefreshSecret, 7)
	require.NoError(t, err)

	_, err = jwt.ValidateRefreshToken(token, testSecret)
	require.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func Test_ValidateAccessToken_Garbage(t *testing.T) {
	_, err := jwt.ValidateAccessToken("not-a-jwt", testSecret)
	require.ErrorIs(t, err, jwt.ErrTokenInvalid)
}
