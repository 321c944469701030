package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("u1", "alice@example.com", "editor", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "editor", claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("u1", "", "", []byte("secret-a"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("secret-b"))
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("u1", "", "", []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("secret"))
	require.Error(t, err)
}
