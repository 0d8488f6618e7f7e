package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, method jwt.SigningMethod, key any, claims AdminClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func adminClaims(issuer string, exp time.Time) AdminClaims {
	return AdminClaims{
		UserID: "u-1",
		Role:   RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestJWTVerifier_Valid(t *testing.T) {
	t.Parallel()
	v := NewJWTVerifier("secret", "auth-service")

	tok := signTestToken(t, jwt.SigningMethodHS256, []byte("secret"), adminClaims("auth-service", time.Now().Add(time.Minute)))

	c, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID)
	assert.Equal(t, RoleAdmin, c.Role)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	t.Parallel()
	v := NewJWTVerifier("secret", "auth-service")
	future := time.Now().Add(time.Minute)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.jwt",
		"wrong secret": signTestToken(t, jwt.SigningMethodHS256, []byte("other"), adminClaims("auth-service", future)),
		"wrong issuer": signTestToken(t, jwt.SigningMethodHS256, []byte("secret"), adminClaims("someone-else", future)),
		"expired":      signTestToken(t, jwt.SigningMethodHS256, []byte("secret"), adminClaims("auth-service", time.Now().Add(-time.Hour))),
		"wrong alg":    signTestToken(t, jwt.SigningMethodHS512, []byte("secret"), adminClaims("auth-service", future)),
		"missing uid":  signTestToken(t, jwt.SigningMethodHS256, []byte("secret"), AdminClaims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Issuer: "auth-service"}}),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(tok)
			assert.Error(t, err)
		})
	}
}
