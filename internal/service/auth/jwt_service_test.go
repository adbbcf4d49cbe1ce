package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murmurhq/murmur-api/internal/config"
)

const testSecret = "test-secret-thats-at-least-32-characters-long"

func newTestService(t *testing.T, lifetimeMinutes int) *hmacJWTService {
	t.Helper()

	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: lifetimeMinutes,
	})
	require.NoError(t, err)

	impl, ok := svc.(*hmacJWTService)
	require.True(t, ok)
	return impl
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "too-short"})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 60)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, 42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, strconv.FormatInt(42, 10), claims.Subject)
	assert.NotEmpty(t, claims.ID, "token ID should be set")
	assert.False(t, claims.ExpiresAt.IsZero())
}

func TestGenerateTokenWithoutLifetimeOmitsExpiry(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 0)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, 7, "bob")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.IsZero(), "no expiry claim expected")

	// The token must still validate far in the future.
	svc.timeFunc = func() time.Time {
		return time.Now().Add(10 * 365 * 24 * time.Hour)
	}
	_, err = svc.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 1)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, 42, "alice")
	require.NoError(t, err)

	// Advance past the lifetime plus the allowed clock skew.
	svc.timeFunc = func() time.Time {
		return time.Now().Add(1*time.Hour + svc.clockSkew)
	}

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenErrors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 60)
	ctx := context.Background()

	t.Run("malformed token", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := newTestService(t, 60)
		other.signingKey = []byte("another-secret-thats-32-characters-x")

		token, err := other.GenerateToken(ctx, 42, "alice")
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
