package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, exp, err := m.GenerateAccessToken("user-1", "alice@example.com", "Alice", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(m.AccessTTL), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.FullName)
	assert.Equal(t, "alice", claims.Username)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, _, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := m.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	m := newTestManager()

	refresh, _, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(refresh)
	assert.Error(t, err)

	access, _, err := m.GenerateAccessToken("user-1", "a@b.co", "A", "a")
	require.NoError(t, err)
	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	m := newTestManager()
	other := NewJWTManager("different-secret", "different-secret", time.Minute, time.Hour)

	token, _, err := m.GenerateAccessToken("user-1", "a@b.co", "A", "a")
	require.NoError(t, err)

	_, err = other.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	access, _, err := m.GenerateAccessToken("user-1", "a@b.co", "A", "a")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(access)
	assert.Error(t, err)

	refresh, _, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	_, err = m.ParseRefreshToken(refresh)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	m := newTestManager()

	_, err := m.ParseAccessToken("not-a-token")
	assert.Error(t, err)
	_, err = m.ParseRefreshToken("")
	assert.Error(t, err)
}
