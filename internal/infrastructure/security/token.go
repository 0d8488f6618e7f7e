package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// SessionTokenBytes is the entropy of an onboarding session token.
const SessionTokenBytes = 32

// NewOpaqueToken returns a URL-safe random token of bytesLen random bytes.
func NewOpaqueToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
