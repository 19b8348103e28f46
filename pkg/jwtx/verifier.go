package jwtx

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrWrongType   = errors.New("jwtx: wrong token type")
)

// Issuer issues and verifies one type of session token ("access" or
// "refresh") with a key ring. Now is injectable for tests and defaults to
// time.Now.
type Issuer struct {
	Keys   *KeyRing
	Issuer string
	Type   string
	Now    func() time.Time
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now().UTC()
	}
	return time.Now().UTC()
}

// Issue signs a token whose "sub" claim is the JSON encoding of subject.
// It returns the token and its expiry.
func (i *Issuer) Issue(subject any, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("jwtx: ttl must be positive, got %s", ttl)
	}

	sub, err := json.Marshal(subject)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwtx: encode subject: %w", err)
	}

	claims := NewClaims(string(sub), i.Type, i.Issuer, ttl, i.now())
	token, err := i.Keys.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwtx: sign: %w", err)
	}

	return token, claims.ExpiresAt.Time, nil
}

// Verify checks signature, issuer, expiry and type, then decodes the
// subject into out (when out is non-nil). A token is expired once now
// reaches exp.
//
// Errors wrap exactly one of ErrMalformed, ErrInvalidSig, ErrExpired,
// ErrNotYetValid, ErrIssuer or ErrWrongType.
func (i *Issuer) Verify(token string, out any) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(i.Keys.Methods()),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if i.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.Issuer))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		key, err := i.Keys.Lookup(kid)
		if err != nil {
			return nil, err
		}
		if key.Alg() != t.Method.Alg() {
			return nil, fmt.Errorf("%w: token %s, key %s", ErrAlgMismatch, t.Method.Alg(), key.Alg())
		}
		return key.VerifyKey, nil
	})
	if err != nil {
		return Claims{}, mapParseErr(err)
	}

	if i.Type != "" && claims.Type != i.Type {
		return Claims{}, fmt.Errorf("%w: want %q, got %q", ErrWrongType, i.Type, claims.Type)
	}

	if out != nil {
		if err := json.Unmarshal([]byte(claims.Subject), out); err != nil {
			return Claims{}, fmt.Errorf("%w: subject: %v", ErrMalformed, err)
		}
	}

	return claims, nil
}

// mapParseErr folds jwt/v5 validation errors into the package sentinels.
// Signature problems win over claim problems so a forged token never
// reports as merely expired.
func mapParseErr(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return fmt.Errorf("%w: %v", ErrNotYetValid, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %v", ErrIssuer, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
