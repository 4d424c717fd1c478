package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 10)
	org := "org-1"

	token, expiresAt, err := tm.GenerateToken("user-1", &org)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.SubjectID)
	require.NotNil(t, claims.OrganizationID)
	assert.Equal(t, "org-1", *claims.OrganizationID)
}

func TestParseToken_RejectsForeignSecret(t *testing.T) {
	token, _, err := NewTokenManager("a", 10).GenerateToken("user-1", nil)
	require.NoError(t, err)

	_, err = NewTokenManager("b", 10).ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 10)
	claims := &Claims{
		SubjectID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	tm := NewTokenManager("secret", 10)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{SubjectID: "user-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(signed)
	assert.Error(t, err)
}

func TestParseToken_RequiresSubject(t *testing.T) {
	tm := NewTokenManager("secret", 10)
	token, _, err := tm.GenerateToken("", nil)
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, errMissingSubject)
}
