package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)

	token, err := manager.Issue("alice", time.Now().UTC())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := manager.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", subject)
}

func TestTokenExpired(t *testing.T) {
	manager := NewTokenManager("secret", time.Minute)
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	token, err := manager.Issue("alice", time.Now().UTC())
	require.NoError(t, err)

	manager.now = time.Now
	_, err = manager.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue("alice", time.Now().UTC())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenTampered(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)

	token, err := manager.Issue("alice", time.Now().UTC())
	require.NoError(t, err)

	_, err = manager.Verify(token + "x")
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = manager.Verify("not-a-jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
