package auth

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestDecodeToken(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	raw := signedToken(t, jwt.MapClaims{
		"sub":  "hong@doganjib.example",
		"role": "STAFF",
		"exp":  exp.Unix(),
	})

	claims, err := DecodeToken(raw)
	require.NoError(t, err)

	assert.Equal(t, "hong@doganjib.example", claims.Email)
	assert.Equal(t, "hong", claims.Name)
	assert.Equal(t, "STAFF", claims.Role)
	assert.True(t, claims.IsStaff())
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Minute)))
}

func TestDecodeTokenAuthoritiesClaim(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{
		"sub":         "kim@doganjib.example",
		"authorities": []string{"ROLE_STAFF"},
	})

	claims, err := DecodeToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "STAFF", claims.Role)
}

func TestDecodeTokenRejectsGarbage(t *testing.T) {
	_, err := DecodeToken("not-a-jwt")
	assert.Error(t, err)

	raw := signedToken(t, jwt.MapClaims{"role": "USER"})
	_, err = DecodeToken(raw)
	assert.Error(t, err, "tokens without a subject are unusable")
}
