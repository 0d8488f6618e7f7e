package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

// AdminClaims is the subset of the auth service access token the admin
// surface relies on.
type AdminClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Ver    int64  `json:"ver"`
	jwt.RegisteredClaims
}

// JWTVerifier checks HS256 access tokens minted by the external auth service.
type JWTVerifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		issuer: issuer,
		leeway: 30 * time.Second,
	}
}

func (v *JWTVerifier) Verify(raw string) (AdminClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return AdminClaims{}, errors.New("missing token")
	}

	claims := &AdminClaims{}
	opts := []jwt.ParserOption{
		jwt.WithLeeway(v.leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return AdminClaims{}, err
	}
	if !tok.Valid {
		return AdminClaims{}, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return AdminClaims{}, errors.New("missing uid")
	}
	claims.Role = strings.TrimSpace(claims.Role)
	return *claims, nil
}
