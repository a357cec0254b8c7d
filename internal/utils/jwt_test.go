package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("supervisor-7", "supervisor", "Dana Reyes", "secret", 5)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "supervisor-7", claims.Subject)
	assert.Equal(t, "supervisor", claims.Role)
	assert.Equal(t, "Dana Reyes", claims.Name)
}

func TestAccessTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateAccessToken("u1", "admin", "", "secret", 5)
	require.NoError(t, err)
	_, err = ParseAccessToken(token, "other")
	assert.Error(t, err)

	expired, err := GenerateAccessToken("u1", "admin", "", "secret", -5)
	require.NoError(t, err)
	_, err = ParseAccessToken(expired, "secret")
	assert.Error(t, err)
}
