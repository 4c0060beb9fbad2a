package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	role := domain.RoleTechnical

	token, expiresAt, err := tm.GenerateToken("user-1", &role)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	require.NotNil(t, claims.Role)
	assert.Equal(t, domain.RoleTechnical, *claims.Role)
	assert.NotEmpty(t, claims.ID, "tokens must carry a jti for revocation")
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).GenerateToken("user-1", nil)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).ParseToken(token)
	assert.Error(t, err)
}

func TestTokenUniqueIDs(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	first, _, err := tm.GenerateToken("user-1", nil)
	require.NoError(t, err)
	second, _, err := tm.GenerateToken("user-1", nil)
	require.NoError(t, err)

	claimsA, err := tm.ParseToken(first)
	require.NoError(t, err)
	claimsB, err := tm.ParseToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, claimsA.ID, claimsB.ID)
}

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := HashPassword("hunter2hunter2", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hashed, "hunter2hunter2"))
	assert.Error(t, ComparePassword(hashed, "wrong-password"))
}
