package helper

import (
	"lomaro_whatsapp/model"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("lomaro123")
	require.NoError(t, err)
	assert.NotEqual(t, "lomaro123", hash)

	assert.True(t, CheckPasswordHash("lomaro123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(model.TokenClaim{AccountId: 42, Username: "operator"})
	require.NoError(t, err)

	parsed, err := ParseToken(token)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["accountId"])
	assert.Equal(t, "operator", claims["username"])
}
