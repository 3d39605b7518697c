package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "test-access-secret")
	t.Setenv("REFRESH_SECRET", "test-refresh-secret")

	access, refresh, err := GenerateTokens(42, "alice", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := ValidateToken(access, false)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "admin", claims.Role)

	refreshClaims, err := ValidateToken(refresh, true)
	require.NoError(t, err)
	require.Equal(t, int64(42), refreshClaims.UserID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "test-access-secret")
	t.Setenv("REFRESH_SECRET", "test-refresh-secret")

	access, _, err := GenerateTokens(1, "bob", "customer")
	require.NoError(t, err)

	// An access token must not validate against the refresh secret.
	_, err = ValidateToken(access, true)
	require.Error(t, err)
}

func TestGenerateTokensMissingSecrets(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "")
	t.Setenv("REFRESH_SECRET", "")

	_, _, err := GenerateTokens(1, "bob", "customer")
	require.Error(t, err)
}
