//go:build e2e

package directory_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLivezEndpoint verifies the liveness check endpoint works on an empty directory.
func TestLivezEndpoint(t *testing.T) {
	client := setupDirectoryContainer(t)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

// TestReadyzEndpoint verifies readiness with the broker disabled.
func TestReadyzEndpoint(t *testing.T) {
	client := setupDirectoryContainer(t)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "disabled", health.Checks.Broker)
}

// TestJWKSEndpoint verifies the EdDSA access key is published.
func TestJWKSEndpoint(t *testing.T) {
	client := setupDirectoryContainer(t)

	jwks, err := client.GetJWKS(t.Context())
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1, "JWKS should contain the access signing key")

	key := jwks.Keys[0]
	require.Equal(t, "OKP", key.Kty)
	require.Equal(t, "EdDSA", key.Alg)
	require.NotEmpty(t, key.Kid)
	t.Logf("Key ID: %s, Algorithm: %s", key.Kid, key.Alg)
}
