package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-thats-32-characters-long"

func newTestJWTService(t *testing.T) *hmacJWTService {
	t.Helper()
	service, err := NewJWTService(config.AuthConfig{
		JWTSecret:           testSecret,
		TokenLifetimeMins:   60,
		RefreshLifetimeMins: 60 * 24 * 7,
	})
	require.NoError(t, err, "Failed to create JWT service")
	impl, ok := service.(*hmacJWTService)
	require.True(t, ok, "Expected *hmacJWTService type")
	return impl
}

func TestNewJWTService(t *testing.T) {
	t.Parallel() // Enable parallel execution

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{
			JWTSecret:           "too-short",
			TokenLifetimeMins:   60,
			RefreshLifetimeMins: 60,
		})
		require.Error(t, err)
	})

	t.Run("accepts valid config", func(t *testing.T) {
		t.Parallel()
		service := newTestJWTService(t)
		assert.Equal(t, time.Hour, service.tokenLifetime)
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := newTestJWTService(t)
	ctx := context.Background()
	userID := uuid.New()

	token, err := service.GenerateToken(ctx, userID)
	require.NoError(t, err, "Failed to generate token")
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(ctx, token)
	require.NoError(t, err, "Failed to validate token")

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "access", claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := newTestJWTService(t)
	ctx := context.Background()
	userID := uuid.New()

	token, err := service.GenerateRefreshToken(ctx, userID)
	require.NoError(t, err)

	claims, err := service.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestWrongTokenTypeRejected(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := newTestJWTService(t)
	ctx := context.Background()
	userID := uuid.New()

	accessToken, err := service.GenerateToken(ctx, userID)
	require.NoError(t, err)
	refreshToken, err := service.GenerateRefreshToken(ctx, userID)
	require.NoError(t, err)

	// A refresh token must never pass access validation, and vice versa.
	_, err = service.ValidateToken(ctx, refreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = service.ValidateRefreshToken(ctx, accessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := newTestJWTService(t)
	ctx := context.Background()
	userID := uuid.New()

	issued := time.Now().UTC()
	service.timeFunc = func() time.Time { return issued }

	token, err := service.GenerateToken(ctx, userID)
	require.NoError(t, err)

	// Jump past the lifetime plus the clock skew allowance.
	service.timeFunc = func() time.Time {
		return issued.Add(service.tokenLifetime + service.clockSkew + time.Minute)
	}

	_, err = service.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestClockSkewTolerated(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := newTestJWTService(t)
	ctx := context.Background()
	userID := uuid.New()

	issued := time.Now().UTC()
	service.timeFunc = func() time.Time { return issued }

	token, err := service.GenerateToken(ctx, userID)
	require.NoError(t, err)

	// Just past expiry but within the skew allowance still validates.
	service.timeFunc = func() time.Time {
		return issued.Add(service.tokenLifetime + time.Minute)
	}

	_, err = service.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := newTestJWTService(t)
	ctx := context.Background()

	token, err := service.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	_, err = service.ValidateToken(ctx, token+"x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ValidateToken(ctx, "not-a-jwt-at-all")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSignedWithDifferentKeyRejected(t *testing.T) {
	t.Parallel() // Enable parallel execution
	ctx := context.Background()

	other, err := NewJWTService(config.AuthConfig{
		JWTSecret:           "another-secret-key-also-32-chars-plus",
		TokenLifetimeMins:   60,
		RefreshLifetimeMins: 60,
	})
	require.NoError(t, err)

	token, err := other.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	service := newTestJWTService(t)
	_, err = service.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
