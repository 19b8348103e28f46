//go:build e2e

package directory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openferp/directory/pkg/dirsdk"
)

// TestRateLimitLoginEndpoint verifies /auth/login is rate limited per
// client and email. The strict profile allows 5 requests per minute.
func TestRateLimitLoginEndpoint(t *testing.T) {
	client := setupDirectoryContainerWithDefaultRateLimits(t)
	ctx := t.Context()

	var lastErr error
	for i := range 6 {
		_, err := client.Login(ctx, "someone@acme.test", "wrong-password")
		if i < 5 {
			assertAPIError(t, err, dirsdk.ErrUnauthenticated, "invalid credentials should fail")
			continue
		}
		lastErr = err
	}

	assertAPIError(t, lastErr, dirsdk.ErrRateLimited, "sixth login attempt")

	// A different email has its own budget.
	_, err := client.Login(ctx, "other@acme.test", "wrong-password")
	assertAPIError(t, err, dirsdk.ErrUnauthenticated, "login with another email")
}

// TestRateLimitSignupEndpoint verifies /enterprise/signup is rate limited per client.
func TestRateLimitSignupEndpoint(t *testing.T) {
	client := setupDirectoryContainerWithDefaultRateLimits(t)
	ctx := t.Context()

	invalid := dirsdk.SignupRequest{}

	var lastErr error
	for i := range 6 {
		_, err := client.Signup(ctx, invalid)
		require.Error(t, err)
		if i < 5 {
			assertAPIError(t, err, dirsdk.ErrInvalidInput, "invalid signup should fail validation")
			continue
		}
		lastErr = err
	}

	assertAPIError(t, lastErr, dirsdk.ErrRateLimited, "sixth signup attempt")
}
