package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environments
const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvProd = "prod"
)

type Config struct {
	Env                 string        // Environment (dev, test, prod); test wipes the database on startup (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	CORSAllowedOrigins  []string      // Optional: allowed origins; dev and test fall back to localhost
	PepperFile          string        // Optional: path to the password pepper file (default: ./pepper)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseURL    string // Required for postgres: pgx connection string
	DatabaseFile   string // Optional: SQLite file (default: ./directory.db)

	JWTAlgorithm          string        // HS256, HS384, HS512 or EdDSA (default: HS256)
	JWTSecretKey          string        // Access token secret (HMAC)
	JWTRefreshSecretKey   string        // Refresh token secret (HMAC)
	JWTPreviousSecretKeys []string      // Optional: retired secrets still accepted for verification
	JWTKeyEncoding        string        // raw or base64 (default: raw)
	JWTPrivateKeyFile     string        // EdDSA: PKCS8 PEM file of the access signing key
	JWTPreviousKeyFiles   []string      // EdDSA: retired PEM files still accepted for verification
	JWTIssuer             string        // "iss" claim (default: openferp.org)
	JWTAccessTTL          time.Duration // JWT_ACCESS_EXPIRE_MINUTES (default: 30m)
	JWTRefreshTTL         time.Duration // JWT_REFRESH_EXPIRE_MINUTES (default: 48h)

	BrokerEnabled      bool          // Publish and consume events (default: true)
	BrokerHost         string        // (default: localhost)
	BrokerPort         int           // (default: 5672)
	BrokerUser         string        // (default: guest)
	BrokerPass         string        // (default: guest)
	BrokerVHost        string        // (default: /)
	Exchange           string        // DEFAULT_EXCHANGE (default: openferp)
	ExchangeDurable    bool          // EXCHANGE_DURABLE (default: true)
	RoutingPrefix      string        // BROKER_ROUTING_PREFIX (default: rh_event)
	Routes             []string      // BROKER_ROUTES (default: sells,pt)
	ConsumeQueue       string        // BROKER_CONSUME_QUEUE (default: rh_event_queue)
	ConsumeBinding     string        // BROKER_CONSUME_BINDING (default: *.rh)
	DeadLetterExchange string        // Optional: BROKER_DEAD_LETTER_EXCHANGE
	RequeueRedelivered bool          // BROKER_REQUEUE_REDELIVERED (default: true)
	PublishTimeout     time.Duration // BROKER_PUBLISH_TIMEOUT (default: 5s)
	Origin             string        // BROKER_ORIGIN stamped on published events (default: rh)
	RedisAddr          string        // Optional: dedupe consumed messages in redis instead of memory
	RedisPassword      string        // Optional
	RedisDB            int           // (default: 0)
}

func LoadConfig() Config {
	env := strings.ToLower(getEnvOrDefault("ENVIRONMENT", EnvDev))

	cfg := Config{
		Env:                 env,
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		CORSAllowedOrigins:  getEnvListOrDefault("CORS_ALLOWED_ORIGINS", nil),
		PepperFile:          getEnvOrDefault("PEPPER_FILE", "pepper"),

		DatabaseDriver: getEnvOrDefault("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "directory.db"),

		JWTAlgorithm:          getEnvOrDefault("JWT_ALGORITHM", "HS256"),
		JWTSecretKey:          os.Getenv("JWT_SECRET_KEY"),
		JWTRefreshSecretKey:   os.Getenv("JWT_REFRESH_SECRET_KEY"),
		JWTPreviousSecretKeys: getEnvListOrDefault("JWT_PREVIOUS_SECRET_KEYS", nil),
		JWTKeyEncoding:        getEnvOrDefault("JWT_KEY_ENCODING", "raw"),
		JWTPrivateKeyFile:     os.Getenv("JWT_PRIVATE_KEY_FILE"),
		JWTPreviousKeyFiles:   getEnvListOrDefault("JWT_PREVIOUS_KEY_FILES", nil),
		JWTIssuer:             getEnvOrDefault("JWT_ISSUER", "openferp.org"),
		JWTAccessTTL:          getEnvMinutesOrDefault("JWT_ACCESS_EXPIRE_MINUTES", 30*time.Minute),
		JWTRefreshTTL:         getEnvMinutesOrDefault("JWT_REFRESH_EXPIRE_MINUTES", 2880*time.Minute),

		BrokerEnabled:      getEnvBoolOrDefault("BROKER_ENABLED", true),
		BrokerHost:         getEnvOrDefault("BROKER_HOST", "localhost"),
		BrokerPort:         getEnvIntOrDefault("BROKER_PORT", 5672),
		BrokerUser:         getEnvOrDefault("BROKER_USER", "guest"),
		BrokerPass:         getEnvOrDefault("BROKER_PASS", "guest"),
		BrokerVHost:        getEnvOrDefault("BROKER_VHOST", "/"),
		Exchange:           getEnvOrDefault("DEFAULT_EXCHANGE", "openferp"),
		ExchangeDurable:    getEnvBoolOrDefault("EXCHANGE_DURABLE", true),
		RoutingPrefix:      getEnvOrDefault("BROKER_ROUTING_PREFIX", "rh_event"),
		Routes:             getEnvListOrDefault("BROKER_ROUTES", []string{"sells", "pt"}),
		ConsumeQueue:       getEnvOrDefault("BROKER_CONSUME_QUEUE", "rh_event_queue"),
		ConsumeBinding:     getEnvOrDefault("BROKER_CONSUME_BINDING", "*.rh"),
		DeadLetterExchange: os.Getenv("BROKER_DEAD_LETTER_EXCHANGE"),
		RequeueRedelivered: getEnvBoolOrDefault("BROKER_REQUEUE_REDELIVERED", true),
		PublishTimeout:     getEnvDurationOrDefault("BROKER_PUBLISH_TIMEOUT", 5*time.Second),
		Origin:             getEnvOrDefault("BROKER_ORIGIN", "rh"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvIntOrDefault("REDIS_DB", 0),
	}

	return cfg
}

// Origins returns the CORS allow-list. Outside production an empty list
// falls back to the local development origins.
func (c Config) Origins(dev []string) []string {
	if len(c.CORSAllowedOrigins) > 0 || c.Env == EnvProd {
		return c.CORSAllowedOrigins
	}
	return dev
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

// getEnvMinutesOrDefault reads a whole number of minutes.
func getEnvMinutesOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvListOrDefault reads a comma separated list, dropping blank items.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
