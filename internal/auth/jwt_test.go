package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseBearerToken(t *testing.T) {
	token, err := ParseBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ParseBearerToken("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = ParseBearerToken("")
	assert.Error(t, err)

	_, err = ParseBearerToken("Basic abc")
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	userID, err := ValidateToken("secret", signToken(t, "secret", "42"))
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	_, err := ValidateToken("other", signToken(t, "secret", "42"))
	assert.Error(t, err)
}

func TestValidateTokenBadSubject(t *testing.T) {
	_, err := ValidateToken("secret", signToken(t, "secret", "not-a-number"))
	assert.Error(t, err)

	_, err = ValidateToken("secret", signToken(t, "secret", "0"))
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ValidateToken("secret", signed)
	assert.Error(t, err)
}
