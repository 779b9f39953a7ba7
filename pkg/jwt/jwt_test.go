package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAccessTokenRoundTrip(t *testing.T) {
	s := NewJWTService(testSecret, time.Hour, 24*time.Hour)

	token, err := s.GenerateAccessToken(7, "alice")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, issuer, claims.Issuer)

	_, err = s.ValidateRefreshToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshToken(t *testing.T) {
	s := NewJWTService(testSecret, time.Hour, 24*time.Hour)

	token, err := s.GenerateRefreshToken(7, "alice")
	require.NoError(t, err)

	claims, err := s.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, subjectRefresh, claims.Subject)
}

func TestExpiredAndForeignTokens(t *testing.T) {
	expired := NewJWTService(testSecret, -time.Minute, time.Hour)
	token, err := expired.GenerateAccessToken(1, "bob")
	require.NoError(t, err)

	_, err = expired.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other := NewJWTService("another-secret-another-secret-xx", time.Hour, time.Hour)
	foreign, err := other.GenerateAccessToken(1, "bob")
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, time.Hour, time.Hour).ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = other.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenCannotAccess(t *testing.T) {
	s := NewJWTService(testSecret, time.Hour, 24*time.Hour)

	refresh, err := s.GenerateRefreshToken(3, "carol")
	require.NoError(t, err)

	_, err = s.ValidateToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensAreUnique(t *testing.T) {
	s := NewJWTService(testSecret, time.Hour, time.Hour)

	a, err := s.GenerateAccessToken(1, "bob")
	require.NoError(t, err)
	b, err := s.GenerateAccessToken(1, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
