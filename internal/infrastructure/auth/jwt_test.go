package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backend/internal/infrastructure/config"
)

func newTestJWTService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars!!",
		AccessTokenExpiration: expiration,
		Issuer:                "shopcore-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	t.Run("round trip preserves user id and role", func(t *testing.T) {
		svc := newTestJWTService(15 * time.Minute)
		userID := uuid.New()

		token, expiresAt, err := svc.Generate(userID, RoleAdmin)
		require.NoError(t, err)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, RoleAdmin, claims.Role)

		parsed, err := claims.ParsedUserID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		svc := newTestJWTService(-time.Minute)
		token, _, err := svc.Generate(uuid.New(), RoleCustomer)
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		svc := newTestJWTService(15 * time.Minute)
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-key-also-32-chars!!!",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "shopcore-test",
		})

		token, _, err := other.Generate(uuid.New(), RoleCustomer)
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestJWTService(15 * time.Minute)
		_, err := svc.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
