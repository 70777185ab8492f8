package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueVerifyRoundtrip(t *testing.T) {
	svc := NewTokenService("test-secret", 24*time.Hour)

	token, err := svc.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", subject)
}

func TestTokenService_VerifyExpired(t *testing.T) {
	svc := NewTokenService("test-secret", 24*time.Hour)

	token, err := svc.Issue("user-123")
	require.NoError(t, err)

	// Move the clock past the validity window.
	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_VerifyWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", 24*time.Hour)
	verifier := NewTokenService("secret-b", 24*time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_VerifyMalformed(t *testing.T) {
	svc := NewTokenService("test-secret", 24*time.Hour)

	for _, input := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(input)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}
