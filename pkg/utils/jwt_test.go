package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken("user-1", "acct-9", "America/Denver", []string{"dispatcher"})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "acct-9", claims.AccountID)
	assert.Equal(t, "America/Denver", claims.TimeZone)
	assert.Equal(t, []string{"dispatcher"}, claims.Roles)
}

func TestValidateTokenRejectsOtherSecret(t *testing.T) {
	SetSecret("one")
	token, err := GenerateToken("user-1", "", "", nil)
	require.NoError(t, err)

	SetSecret("two")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRequiresUserID(t *testing.T) {
	SetSecret("test-secret")
	token, err := GenerateToken("", "acct", "", nil)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)
}
