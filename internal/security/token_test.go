package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gatekeeper-bot/internal/security"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	manager := security.NewTokenManager("test-secret-that-is-long-enough-000")

	token, err := manager.GenerateAPIToken("M1", []string{"G1", "G2"})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "M1", claims.ModeratorID)
	assert.Equal(t, []string{"G1", "G2"}, claims.GuildIDs)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	manager := security.NewTokenManager("test-secret-that-is-long-enough-000")
	other := security.NewTokenManager("another-secret-that-is-long-enough-1")

	token, err := other.GenerateAPIToken("M1", nil)
	assert.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	manager := security.NewTokenManager("test-secret-that-is-long-enough-000")

	_, err := manager.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}
