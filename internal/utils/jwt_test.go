package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/autostrada/auction-api/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, model.RoleSeller, 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	userID, role, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), userID)
	require.Equal(t, model.RoleSeller, role)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, model.RoleBuyer, 15)
	require.NoError(t, err)

	_, _, err = ParseAccessToken("other-secret", tok.Token)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	_, _, err := ParseAccessToken("secret", "not.a.jwt")
	require.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, model.RoleBuyer, -1)
	require.NoError(t, err)

	_, _, err = ParseAccessToken("secret", tok.Token)
	require.Error(t, err)
}

func TestRefreshTokenGeneration(t *testing.T) {
	a, err := NewRefreshToken(30)
	require.NoError(t, err)
	b, err := NewRefreshToken(30)
	require.NoError(t, err)

	require.Len(t, a.Raw, 96)
	require.NotEqual(t, a.Raw, b.Raw)
	require.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), a.Exp, 5*time.Second)

	// Hashing is deterministic and never echoes the raw token.
	require.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
	require.NotEqual(t, a.Raw, HashRefreshRaw(a.Raw))
	require.Len(t, HashRefreshRaw(a.Raw), 64)
}
