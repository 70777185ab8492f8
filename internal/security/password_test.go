package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_NeverPlaintext(t *testing.T) {
	hash, err := HashPassword("longenough")
	require.NoError(t, err)
	require.NotEqual(t, "longenough", string(hash))
	require.True(t, VerifyPassword("longenough", hash))
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	require.False(t, VerifyPassword("wrong-horse", hash))
	require.False(t, VerifyPassword("", hash))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := HashPassword("longenough")
	require.NoError(t, err)
	second, err := HashPassword("longenough")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
