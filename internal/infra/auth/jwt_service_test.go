package auth

import (
	"testing"
	"time"

	"authd/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Token = secret
	cfg.Auth = &config.AuthConfig{TokenTTL: ttl}

	return cfg
}

func TestJWTService_SignAndVerify(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig("test_token_secret_key_very_long_for_testing", time.Hour))
	require.NoError(t, err)

	userID := uuid.New()

	token, err := jwtService.Sign(userID, "a@x.com", "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)

	// Registered claims are issued fresh on every sign.
	assert.Equal(t, userID.String(), claims.Subject)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_RejectsMissingSecret(t *testing.T) {
	_, err := NewJWTService(newTestConfig("", time.Hour))
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbageToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig("test_token_secret_key_very_long_for_testing", time.Hour))
	require.NoError(t, err)

	_, err = jwtService.Verify("not.a.token")
	assert.Error(t, err)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	signer, err := NewJWTService(newTestConfig("signer_secret_key_very_long_for_testing", time.Hour))
	require.NoError(t, err)
	verifier, err := NewJWTService(newTestConfig("different_secret_key_very_long_for_testing", time.Hour))
	require.NoError(t, err)

	token, err := signer.Sign(uuid.New(), "a@x.com", "alice")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	// Built directly so the token is already expired when issued.
	expiredIssuer := &jwtService{secret: "test_token_secret_key_very_long_for_testing", ttl: -time.Minute}

	token, err := expiredIssuer.Sign(uuid.New(), "a@x.com", "alice")
	require.NoError(t, err)

	_, err = expiredIssuer.Verify(token)
	assert.Error(t, err)
}
