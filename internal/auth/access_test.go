package auth

import (
	"testing"
	"time"

	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	a, err := NewAccessTokens(testConfig())
	require.NoError(t, err)
	assert.Equal(t, DefaultAccessTTL, a.TTL())

	manager := models.Identity{ID: 7, Username: "boss", Email: "boss@b.com", Role: models.RoleManager}
	tok, err := a.Sign(manager)
	require.NoError(t, err)

	claims, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "boss", claims.Username)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestAccessTokenRefusesRecoveryToken(t *testing.T) {
	a, err := NewAccessTokens(testConfig())
	require.NoError(t, err)

	_, err = a.Parse(mustIssue(t, testConfig(), alice))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestAccessTokenExpired(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	old, err := NewAccessTokens(testConfig(), fixedClock(past))
	require.NoError(t, err)
	tok, err := old.Sign(alice)
	require.NoError(t, err)

	a, err := NewAccessTokens(testConfig())
	require.NoError(t, err)
	_, err = a.Parse(tok)
	requireKind(t, err, domain.TokenExpired)
}

func TestAccessTokenOtherKey(t *testing.T) {
	other := testConfig()
	other.Key = []byte("another-key-another-key-another!!")
	signer, err := NewAccessTokens(other)
	require.NoError(t, err)
	tok, err := signer.Sign(alice)
	require.NoError(t, err)

	a, err := NewAccessTokens(testConfig())
	require.NoError(t, err)
	_, err = a.Parse(tok)
	requireKind(t, err, domain.TokenInvalidSignature)
}
