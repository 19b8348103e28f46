package app

import (
	"encoding/base64"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openferp/directory/pkg/cryptox"
	"github.com/openferp/directory/pkg/jwtx"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitSessionKeysHMAC(t *testing.T) {
	cfg := Config{
		Env:                 EnvProd,
		JWTAlgorithm:        "HS512",
		JWTSecretKey:        "access-secret-0123456789",
		JWTRefreshSecretKey: "refresh-secret-0123456789",
		JWTIssuer:           "openferp.org",
	}

	keys, err := InitSessionKeys(cfg, discardLogger())
	require.NoError(t, err)
	require.Equal(t, "HS512", keys.Access.Current().Alg())
	require.Equal(t, "HS512", keys.Refresh.Current().Alg())
	require.NotEqual(t, keys.Access.Current().KID, keys.Refresh.Current().KID)

	// Shared secrets are never published.
	require.Empty(t, keys.Access.PublicJWKS().Keys)
}

func TestInitSessionKeysRotation(t *testing.T) {
	old := Config{
		Env:                 EnvProd,
		JWTAlgorithm:        "HS256",
		JWTSecretKey:        "old-access-secret-0123",
		JWTRefreshSecretKey: "refresh-secret-0123456789",
	}
	oldKeys, err := InitSessionKeys(old, discardLogger())
	require.NoError(t, err)

	issuer := &jwtx.Issuer{Keys: oldKeys.Access, Issuer: "openferp.org", Type: jwtx.TypeAccess}
	token, _, err := issuer.Issue(map[string]string{"id": "u1"}, time.Minute)
	require.NoError(t, err)

	rotated := old
	rotated.JWTSecretKey = "new-access-secret-0123"
	rotated.JWTPreviousSecretKeys = []string{"old-access-secret-0123"}
	newKeys, err := InitSessionKeys(rotated, discardLogger())
	require.NoError(t, err)
	require.NotEqual(t, oldKeys.Access.Current().KID, newKeys.Access.Current().KID)

	verifier := &jwtx.Issuer{Keys: newKeys.Access, Issuer: "openferp.org", Type: jwtx.TypeAccess}
	var sub map[string]string
	_, err = verifier.Verify(token, &sub)
	require.NoError(t, err)
	require.Equal(t, "u1", sub["id"])
}

func TestInitSessionKeysBase64(t *testing.T) {
	secret := []byte("a-binary-secret-of-32-bytes-long")
	cfg := Config{
		Env:                 EnvProd,
		JWTAlgorithm:        "HS256",
		JWTKeyEncoding:      "base64",
		JWTSecretKey:        base64.StdEncoding.EncodeToString(secret),
		JWTRefreshSecretKey: base64.RawURLEncoding.EncodeToString(secret[:20]),
	}

	keys, err := InitSessionKeys(cfg, discardLogger())
	require.NoError(t, err)
	require.Equal(t, cryptox.Fingerprint(secret), keys.Access.Current().KID)

	cfg.JWTSecretKey = "not base64 !!"
	_, err = InitSessionKeys(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitSessionKeysMissingSecrets(t *testing.T) {
	cfg := Config{Env: EnvProd, JWTAlgorithm: "HS256"}
	_, err := InitSessionKeys(cfg, discardLogger())
	require.ErrorContains(t, err, "JWT_SECRET_KEY")

	cfg.Env = EnvDev
	keys, err := InitSessionKeys(cfg, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, keys.Access)
	require.NotNil(t, keys.Refresh)
}

func TestInitSessionKeysRejectsShortSecret(t *testing.T) {
	cfg := Config{Env: EnvDev, JWTAlgorithm: "HS256", JWTSecretKey: "short"}
	_, err := InitSessionKeys(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitSessionKeysEdDSA(t *testing.T) {
	dir := t.TempDir()

	current, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	previous, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	currentPath := filepath.Join(dir, "current.pem")
	previousPath := filepath.Join(dir, "previous.pem")
	require.NoError(t, os.WriteFile(currentPath, current, 0o600))
	require.NoError(t, os.WriteFile(previousPath, previous, 0o600))

	cfg := Config{
		Env:                 EnvProd,
		JWTAlgorithm:        "EdDSA",
		JWTPrivateKeyFile:   currentPath,
		JWTPreviousKeyFiles: []string{previousPath},
		JWTRefreshSecretKey: "refresh-secret-0123456789",
	}

	keys, err := InitSessionKeys(cfg, discardLogger())
	require.NoError(t, err)
	require.Equal(t, "EdDSA", keys.Access.Current().Alg())
	require.Equal(t, "HS256", keys.Refresh.Current().Alg())
	require.Len(t, keys.Access.PublicJWKS().Keys, 2)

	cfg.JWTPrivateKeyFile = ""
	_, err = InitSessionKeys(cfg, discardLogger())
	require.ErrorContains(t, err, "JWT_PRIVATE_KEY_FILE")

	cfg.Env = EnvTest
	keys, err = InitSessionKeys(cfg, discardLogger())
	require.NoError(t, err)
	require.Equal(t, "EdDSA", keys.Access.Current().Alg())
}

func TestInitSessionKeysUnknownAlgorithm(t *testing.T) {
	_, err := InitSessionKeys(Config{Env: EnvDev, JWTAlgorithm: "RS256"}, discardLogger())
	require.ErrorContains(t, err, "unsupported JWT_ALGORITHM")
}
