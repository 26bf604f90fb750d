package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken("test-secret", 7, "CUSTOMER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)

	parsed, err := jwt.Parse(at.Token, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.EqualValues(t, 7, claims["sub"])
	assert.Equal(t, "CUSTOMER", claims["role"])
}

func TestAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("test-secret", 7, "ADMIN", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(*jwt.Token) (any, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	rt, err := NewRefreshToken(30)
	require.NoError(t, err)
	require.Len(t, rt.Raw, 96)

	// The stored hash must be reproducible from the raw token alone.
	assert.Equal(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(rt.Raw))
	assert.NotEqual(t, rt.Raw, HashRefreshRaw(rt.Raw))
}

func TestPasswordVerify(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestHashPasswordClampsBadCost(t *testing.T) {
	// A cost beyond bcrypt's range must fall back to the default
	// instead of erroring.
	hash, err := HashPassword("s3cret", 99)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
}
