package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Secret sizes in bytes before encoding.
const (
	TokenSize256 = 32
	TokenSize512 = 64
)

// GenerateToken returns size random bytes, base64url encoded without padding.
// The directory uses it for ephemeral development signing secrets.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Fingerprint returns a short, stable identifier for secret key material.
// It is used as the JWT "kid" so keys can be told apart without exposing them.
func Fingerprint(material []byte) string {
	sum := sha256.Sum256(material)
	return base64.RawURLEncoding.EncodeToString(sum[:])[:16]
}
