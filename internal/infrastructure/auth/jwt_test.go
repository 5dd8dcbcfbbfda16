package auth

import (
	"testing"
	"time"

	"github.com/firmdesk/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                "test-secret-key-with-enough-length",
		Issuer:                "firmdesk-test",
		AccessTokenExpiration: time.Hour,
	}
}

func TestJWTService(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	firmID := uuid.New()
	userID := uuid.New()

	t.Run("round-trips valid tokens", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(GenerateTokenInput{
			FirmID: firmID,
			UserID: userID,
			Email:  "lawyer@example.com",
		})
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, firmID.String(), claims.FirmID)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "lawyer@example.com", claims.Email)

		gotFirm, err := claims.ParsedFirmID()
		require.NoError(t, err)
		assert.Equal(t, firmID, gotFirm)

		gotUser, err := claims.ParsedUserID()
		require.NoError(t, err)
		assert.Equal(t, userID, gotUser)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-key-with-enough-length",
			Issuer:                "firmdesk-test",
			AccessTokenExpiration: time.Hour,
		})
		token, err := other.GenerateAccessToken(GenerateTokenInput{FirmID: firmID, UserID: userID})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-with-enough-length",
			Issuer:                "firmdesk-test",
			AccessTokenExpiration: -time.Minute,
		})
		token, err := expired.GenerateAccessToken(GenerateTokenInput{FirmID: firmID, UserID: userID})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
