package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/whogoodluck/chatapp/models"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: "user-1"}

	token, err := GenerateToken(user, "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, "test-secret")
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
}

func TestTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: "user-1"}

	token, err := GenerateToken(user, "test-secret")
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token", "test-secret")
	require.ErrorIs(t, err, ErrUnauthorized)
}
