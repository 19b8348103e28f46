package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PORT", "DATABASE_DRIVER", "JWT_ALGORITHM", "BROKER_ENABLED", "BROKER_ROUTES"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	require.Equal(t, EnvDev, cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, "HS256", cfg.JWTAlgorithm)
	require.Equal(t, "openferp.org", cfg.JWTIssuer)
	require.Equal(t, 30*time.Minute, cfg.JWTAccessTTL)
	require.Equal(t, 48*time.Hour, cfg.JWTRefreshTTL)
	require.True(t, cfg.BrokerEnabled)
	require.Equal(t, "openferp", cfg.Exchange)
	require.Equal(t, "rh_event", cfg.RoutingPrefix)
	require.Equal(t, []string{"sells", "pt"}, cfg.Routes)
	require.Equal(t, "rh_event_queue", cfg.ConsumeQueue)
	require.Equal(t, "*.rh", cfg.ConsumeBinding)
	require.Equal(t, "rh", cfg.Origin)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "PROD")
	t.Setenv("PORT", "9090")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "15")
	t.Setenv("JWT_ACCESS_EXPIRE_MINUTES", "5")
	t.Setenv("JWT_REFRESH_EXPIRE_MINUTES", "not-a-number")
	t.Setenv("JWT_PREVIOUS_SECRET_KEYS", " old-one , ,old-two ")
	t.Setenv("BROKER_ENABLED", "false")
	t.Setenv("BROKER_ROUTES", "sells")
	t.Setenv("BROKER_PUBLISH_TIMEOUT", "250ms")
	t.Setenv("REDIS_DB", "3")

	cfg := LoadConfig()

	require.Equal(t, EnvProd, cfg.Env)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 15*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 5*time.Minute, cfg.JWTAccessTTL)
	require.Equal(t, 48*time.Hour, cfg.JWTRefreshTTL)
	require.Equal(t, []string{"old-one", "old-two"}, cfg.JWTPreviousSecretKeys)
	require.False(t, cfg.BrokerEnabled)
	require.Equal(t, []string{"sells"}, cfg.Routes)
	require.Equal(t, 250*time.Millisecond, cfg.PublishTimeout)
	require.Equal(t, 3, cfg.RedisDB)
}

func TestConfigOrigins(t *testing.T) {
	dev := []string{"http://localhost:3000"}

	require.Equal(t, dev, Config{Env: EnvDev}.Origins(dev))
	require.Empty(t, Config{Env: EnvProd}.Origins(dev))
	require.Equal(t, []string{"https://app.example"},
		Config{Env: EnvProd, CORSAllowedOrigins: []string{"https://app.example"}}.Origins(dev))
}
