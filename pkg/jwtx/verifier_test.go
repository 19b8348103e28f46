package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/openferp/directory/pkg/cryptox"
	"github.com/openferp/directory/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "openferp.org"

type snapshot struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Scope    string `json:"scope"`
}

func hmacKey(t *testing.T, alg, secret string) jwtx.Key {
	t.Helper()
	k, err := jwtx.NewHMACKey(alg, "", []byte(secret))
	require.NoError(t, err)
	return k
}

func newIssuer(t *testing.T, now *time.Time, current jwtx.Key, previous ...jwtx.Key) *jwtx.Issuer {
	t.Helper()
	ring, err := jwtx.NewKeyRing(current, previous...)
	require.NoError(t, err)
	return &jwtx.Issuer{
		Keys:   ring,
		Issuer: exampleIssuer,
		Type:   jwtx.TypeAccess,
		Now:    func() time.Time { return *now },
	}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	edPEM, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	edKey, err := jwtx.NewEdDSAKey("", edPEM)
	require.NoError(t, err)

	keys := map[string]jwtx.Key{
		"HS256": hmacKey(t, "HS256", "0123456789abcdef0123"),
		"HS384": hmacKey(t, "HS384", "0123456789abcdef0123"),
		"HS512": hmacKey(t, "HS512", "0123456789abcdef0123"),
		"EdDSA": edKey,
	}

	for alg, key := range keys {
		t.Run(alg, func(t *testing.T) {
			now := time.Unix(1_700_000_000, 0).UTC()
			iss := newIssuer(t, &now, key)

			in := snapshot{ID: "01J0", Username: "bob", Scope: "All"}
			token, exp, err := iss.Issue(in, 30*time.Minute)
			require.NoError(t, err)
			require.True(t, now.Add(30*time.Minute).Equal(exp))

			var out snapshot
			claims, err := iss.Verify(token, &out)
			require.NoError(t, err)
			require.Equal(t, in, out)
			require.Equal(t, exampleIssuer, claims.Issuer)
			require.Equal(t, jwtx.TypeAccess, claims.Type)
			require.Equal(t, alg, key.Alg())
		})
	}
}

func TestVerify_ExpiresExactlyAtExp(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0).UTC()
	iss := newIssuer(t, &now, hmacKey(t, "HS256", "0123456789abcdef0123"))

	token, _, err := iss.Issue(snapshot{ID: "u1"}, time.Minute)
	require.NoError(t, err)

	now = now.Add(time.Minute - time.Second)
	_, err = iss.Verify(token, nil)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = iss.Verify(token, nil)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestIssue_SubSecondClockNeverShortensTTL(t *testing.T) {
	t.Parallel()

	issuedAt := time.Unix(1000, 700*int64(time.Millisecond)).UTC()
	now := issuedAt
	iss := newIssuer(t, &now, hmacKey(t, "HS256", "0123456789abcdef0123"))

	token, exp, err := iss.Issue(snapshot{ID: "u1"}, time.Minute)
	require.NoError(t, err)
	require.True(t, exp.Equal(time.Unix(1061, 0)), "expiry %s", exp)
	require.False(t, exp.Before(issuedAt.Add(time.Minute)))

	now = issuedAt.Add(time.Minute - 300*time.Millisecond)
	claims, err := iss.Verify(token, nil)
	require.NoError(t, err)
	require.True(t, exp.Equal(claims.ExpiresAt.Time), "returned expiry matches the signed one")

	now = issuedAt.Add(time.Minute)
	_, err = iss.Verify(token, nil)
	require.NoError(t, err)

	now = exp
	_, err = iss.Verify(token, nil)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerify_Failures(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0).UTC()
	key := hmacKey(t, "HS256", "0123456789abcdef0123")
	iss := newIssuer(t, &now, key)

	token, _, err := iss.Issue(snapshot{ID: "u1"}, time.Hour)
	require.NoError(t, err)

	t.Run("issuer mismatch", func(t *testing.T) {
		other := *iss
		other.Issuer = "someone-else"
		_, err := other.Verify(token, nil)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("bad signature", func(t *testing.T) {
		forger := newIssuer(t, &now, jwtx.Key{
			KID: key.KID, Method: key.Method,
			SignKey: []byte("another-secret-of-length"), VerifyKey: []byte("another-secret-of-length"),
		})
		forged, _, err := forger.Issue(snapshot{ID: "u1"}, time.Hour)
		require.NoError(t, err)

		_, err = iss.Verify(forged, nil)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		parts[1] = parts[1][:len(parts[1])-2] + "AA"
		_, err := iss.Verify(strings.Join(parts, "."), nil)
		require.Error(t, err)
		require.NotErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("unknown kid", func(t *testing.T) {
		stranger := newIssuer(t, &now, hmacKey(t, "HS256", "a-completely-different-secret"))
		foreign, _, err := stranger.Issue(snapshot{ID: "u1"}, time.Hour)
		require.NoError(t, err)

		_, err = iss.Verify(foreign, nil)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("algorithm not accepted", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwtx.NewClaims(`{}`, jwtx.TypeAccess, exampleIssuer, time.Hour, now))
		none, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = iss.Verify(none, nil)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := iss.Verify("not-a-token", nil)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong type", func(t *testing.T) {
		refresh := *iss
		refresh.Type = jwtx.TypeRefresh
		_, err := refresh.Verify(token, nil)
		require.ErrorIs(t, err, jwtx.ErrWrongType)
	})

	t.Run("subject not decodable", func(t *testing.T) {
		var out int
		_, err := iss.Verify(token, &out)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestKeyRotation(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0).UTC()
	oldKey := hmacKey(t, "HS256", "the-old-secret-0000")
	newKey := hmacKey(t, "HS512", "the-new-secret-1111")
	require.NotEqual(t, oldKey.KID, newKey.KID)

	before := newIssuer(t, &now, oldKey)
	oldToken, _, err := before.Issue(snapshot{ID: "u1"}, time.Hour)
	require.NoError(t, err)

	after := newIssuer(t, &now, newKey, oldKey)
	_, err = after.Verify(oldToken, nil)
	require.NoError(t, err, "previous keys keep verifying")

	newToken, _, err := after.Issue(snapshot{ID: "u1"}, time.Hour)
	require.NoError(t, err)
	_, err = before.Verify(newToken, nil)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)

	// Previous keys never sign.
	_, err = jwtx.NewKeyRing(jwtx.Key{KID: "x", Method: jwt.SigningMethodHS256})
	require.Error(t, err)
}

func TestNewHMACKey_Rejects(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewHMACKey("HS256", "", []byte("short"))
	require.Error(t, err)

	_, err = jwtx.NewHMACKey("RS256", "", []byte("0123456789abcdef0123"))
	require.Error(t, err)
}

func TestPublicJWKS(t *testing.T) {
	t.Parallel()

	edPEM, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	edKey, err := jwtx.NewEdDSAKey("ed-1", edPEM)
	require.NoError(t, err)

	ring, err := jwtx.NewKeyRing(edKey)
	require.NoError(t, err)

	set := ring.PublicJWKS()
	require.Len(t, set.Keys, 1)
	require.Equal(t, "ed-1", set.Keys[0].Kid)
	pub, err := set.Keys[0].PublicKey()
	require.NoError(t, err)
	require.Equal(t, edKey.VerifyKey, pub)

	hmacRing, err := jwtx.NewKeyRing(hmacKey(t, "HS256", "0123456789abcdef0123"))
	require.NoError(t, err)
	require.Empty(t, hmacRing.PublicJWKS().Keys)
}
