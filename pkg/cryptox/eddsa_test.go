package cryptox_test

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/openferp/directory/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestEd25519KeyRoundTrip(t *testing.T) {
	t.Parallel()

	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	require.Contains(t, string(pemBytes), "BEGIN PRIVATE KEY")

	key, err := cryptox.ParseEd25519Key(pemBytes)
	require.NoError(t, err)
	require.Len(t, key, ed25519.PrivateKeySize)

	msg := []byte("payload")
	require.True(t, ed25519.Verify(key.Public().(ed25519.PublicKey), msg, ed25519.Sign(key, msg)))
}

func TestParseEd25519Key_Rejects(t *testing.T) {
	t.Parallel()

	_, err := cryptox.ParseEd25519Key([]byte("not pem"))
	require.Error(t, err)

	ec, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(ec)
	require.NoError(t, err)
	_, err = cryptox.ParseEd25519Key(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	require.Error(t, err)
}
