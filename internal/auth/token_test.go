package auth

import (
	"errors"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue(42, true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), identity.UserID)
	assert.True(t, identity.IsAdmin)
}

func TestTokenMissing(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.Verify("")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeMissingToken, appErr.Code)
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenServiceWithTTL("test-secret", -time.Minute)

	token, err := svc.Issue(7, false)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeExpiredToken, appErr.Code)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a")
	verifier := NewTokenService("secret-b")

	token, err := issuer.Issue(7, false)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeInvalidToken, appErr.Code)
}

func TestTokenGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.Verify("not.a.token")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeInvalidToken, appErr.Code)
}

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasherWithCost(4)

	hash, err := hasher.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, hasher.Verify(hash, "hunter22"))
	assert.False(t, hasher.Verify(hash, "hunter23"))
}
