package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testKeys(t *testing.T) *Keys {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewKeysFromPrivate(privateKey)
}

func TestTokenRoundTrip(t *testing.T) {
	keys := testKeys(t)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{RoleUser, RoleAdmin},
	}

	token, err := keys.GenerateToken(claims)
	require.NoError(t, err)

	got, err := keys.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-42", got.Subject)
	require.True(t, got.HasRole(RoleUser))
	require.True(t, got.HasRole(RoleAdmin))
}

func TestValidateTokenWrongKey(t *testing.T) {
	keys := testKeys(t)
	otherKeys := testKeys(t)

	token, err := keys.GenerateToken(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{RoleUser},
	})
	require.NoError(t, err)

	_, err = otherKeys.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	keys := testKeys(t)

	token, err := keys.GenerateToken(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Roles: []string{RoleUser},
	})
	require.NoError(t, err)

	_, err = keys.ValidateToken(token)
	require.Error(t, err)
}

func TestHasRole(t *testing.T) {
	claims := Claims{Roles: []string{RoleUser}}
	require.True(t, claims.HasRole(RoleUser))
	require.False(t, claims.HasRole(RoleAdmin))

	var empty Claims
	require.False(t, empty.HasRole(RoleUser))
}
