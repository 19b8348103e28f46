package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/openferp/directory/pkg/cryptox"
)

var ErrNoKey = errors.New("jwtx: key not found")

// minHMACSecret is the shortest secret accepted for HS* keys.
const minHMACSecret = 16

// Key is one signing key. SignKey is nil for keys that only verify.
type Key struct {
	KID       string
	Method    jwt.SigningMethod
	SignKey   any
	VerifyKey any
}

// Alg returns the JWS "alg" name of the key.
func (k Key) Alg() string { return k.Method.Alg() }

// NewHMACKey builds an HS256, HS384 or HS512 key from a shared secret. The
// kid defaults to a fingerprint of the secret so rotated secrets get
// distinct ids without extra configuration.
func NewHMACKey(alg, kid string, secret []byte) (Key, error) {
	var method jwt.SigningMethod
	switch strings.ToUpper(alg) {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return Key{}, fmt.Errorf("jwtx: unsupported HMAC algorithm %q", alg)
	}

	if len(secret) < minHMACSecret {
		return Key{}, fmt.Errorf("jwtx: HMAC secret must be at least %d bytes", minHMACSecret)
	}
	if kid == "" {
		kid = cryptox.Fingerprint(secret)
	}

	return Key{KID: kid, Method: method, SignKey: secret, VerifyKey: secret}, nil
}

// NewEdDSAKey builds an EdDSA key from a PKCS8 PEM encoded Ed25519 private key.
func NewEdDSAKey(kid string, pemKey []byte) (Key, error) {
	priv, err := cryptox.ParseEd25519Key(pemKey)
	if err != nil {
		return Key{}, fmt.Errorf("jwtx: %w", err)
	}

	pub := priv.Public().(ed25519.PublicKey)
	if kid == "" {
		kid = cryptox.Fingerprint(pub)
	}

	return Key{KID: kid, Method: jwt.SigningMethodEdDSA, SignKey: priv, VerifyKey: pub}, nil
}

// KeyRing signs with the current key and verifies against the current key
// plus any previous ones, selected by the "kid" header. A KeyRing is
// immutable once built, so it is safe for concurrent use.
type KeyRing struct {
	current Key
	byKID   map[string]Key
	methods []string
}

// NewKeyRing returns a ring signing with current. Previous keys are only
// used for verification and their SignKey is dropped.
func NewKeyRing(current Key, previous ...Key) (*KeyRing, error) {
	if current.Method == nil || current.SignKey == nil {
		return nil, errors.New("jwtx: current key cannot sign")
	}

	r := &KeyRing{
		current: current,
		byKID:   map[string]Key{current.KID: current},
		methods: []string{current.Alg()},
	}

	for _, k := range previous {
		if _, dup := r.byKID[k.KID]; dup {
			return nil, fmt.Errorf("jwtx: duplicate kid %q", k.KID)
		}
		k.SignKey = nil
		r.byKID[k.KID] = k
		if !slices.Contains(r.methods, k.Alg()) {
			r.methods = append(r.methods, k.Alg())
		}
	}

	return r, nil
}

// Current returns the signing key.
func (r *KeyRing) Current() Key { return r.current }

// Sign signs claims with the current key and stamps its kid.
func (r *KeyRing) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(r.current.Method, claims)
	t.Header["kid"] = r.current.KID
	return t.SignedString(r.current.SignKey)
}

// Lookup returns the verification key for kid. Tokens without a kid are
// checked against the current key.
func (r *KeyRing) Lookup(kid string) (Key, error) {
	if kid == "" {
		return r.current, nil
	}
	k, ok := r.byKID[kid]
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrNoKey, kid)
	}
	return k, nil
}

// Methods lists the algorithms the ring can verify.
func (r *KeyRing) Methods() []string {
	return append([]string(nil), r.methods...)
}
