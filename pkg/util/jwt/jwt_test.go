package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	Init("unit-test-secret", 5)

	token, err := GenerateAccessToken("viewer-1")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "viewer-1", claims.UserID)
	assert.True(t, claims.IsAccessToken())
	assert.NotEmpty(t, claims.ID)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	Init("first-secret", 5)
	token, err := GenerateAccessToken("viewer-1")
	require.NoError(t, err)

	Init("second-secret", 5)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	Init("unit-test-secret", -1)
	token, err := GenerateAccessToken("viewer-1")
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}
