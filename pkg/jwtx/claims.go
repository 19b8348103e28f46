package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes.
const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 48 * time.Hour
)

// Token types carried in the "typ" claim. An access token is never accepted
// where a refresh token is expected and vice versa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims are the session claims. The subject is the JSON encoded snapshot
// handed to Issuer.Issue, so verifiers need no lookup to rebuild it.
type Claims struct {
	jwt.RegisteredClaims

	Type string `json:"typ,omitempty"`
}

// NewClaims builds minimally-correct claims for the given subject.
//
// NumericDate keeps whole seconds, so the expiry is rounded up: a token never
// expires before ttl has elapsed.
func NewClaims(subject, typ, issuer string, ttl time.Duration, now time.Time) Claims {
	exp := now.Add(ttl)
	if whole := exp.Truncate(time.Second); whole.Before(exp) {
		exp = whole.Add(time.Second)
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        NewJTI(),
		},
		Type: typ,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
