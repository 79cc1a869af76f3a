package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/auth"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 30)

	token, expiresAt, err := tm.GenerateToken("user-1", "tech@example.com", domain.RoleTechnician)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.SubjectID)
	assert.Equal(t, "tech@example.com", claims.Email)
	assert.Equal(t, domain.RoleTechnician, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := auth.NewTokenManager("secret-a", 30)
	token, _, err := tm.GenerateToken("user-1", "a@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	other := auth.NewTokenManager("secret-b", 30)
	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := auth.NewTokenManager("secret", 30)
	_, err := tm.ParseToken("not-a-jwt")
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	require.NoError(t, auth.ComparePassword(hash, "s3cret-pass"))
	require.Error(t, auth.ComparePassword(hash, "wrong"))
}
