package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfigMissing is returned by Validate when a required setting is absent.
var ErrConfigMissing = errors.New("missing required configuration")

// Database driver constants
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverFile     = "file"
)

// Store type constants shared by rate limiting and event de-duplication
const (
	StoreTypeMemory = "memory"
	StoreTypeRedis  = "redis"
)

const (
	// WebhookPath is the route the platform delivers events and challenges to.
	WebhookPath = "/webhook"
	// AuthCallbackPath is the OAuth redirect target.
	AuthCallbackPath = "/auth/callback"
	// DefaultSessionSecret is the development-only cookie signing key.
	DefaultSessionSecret = "session-secret-change-in-production"
)

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	IsProduction bool
	LogLevel     string

	// Session settings (OAuth state)
	SessionSecret string
	SessionMaxAge int // seconds

	// Database
	DatabaseDriver string // "sqlite", "postgres" or "file"
	DatabaseDSN    string // Database connection string (DSN or path)
	DBInitTimeout  time.Duration

	// Strava application
	StravaClientID     string
	StravaClientSecret string
	StravaBaseURL      string // OAuth host, e.g. https://www.strava.com
	StravaAPIURL       string // REST API root, e.g. https://www.strava.com/api/v3
	StravaScopes       string // comma separated, sent verbatim
	WebhookVerifyToken string

	// Outbound HTTP
	PlatformTimeout       time.Duration
	PlatformMaxRetries    int
	PlatformRetryDelay    time.Duration
	PlatformMaxRetryDelay time.Duration
	InsecureSkipVerify    bool

	// Messaging endpoint
	NotifyWebhookURL string
	NotifyTimeout    time.Duration

	// Event processing
	EventProcessTimeout  time.Duration
	EventShutdownTimeout time.Duration
	EventDedupEnabled    bool
	EventDedupStore      string // "memory" or "redis"
	EventDedupTTL        time.Duration

	// Metrics
	MetricsEnabled bool
	MetricsToken   string

	// Rate limiting on /auth routes
	EnableRateLimit          bool
	RateLimitStore           string // "memory" or "redis"
	AuthRateLimit            int    // requests per minute per IP
	RateLimitCleanupInterval time.Duration

	// Redis
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisConnTimeout time.Duration

	// Shutdown
	ServerShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		ServerAddr:   ":" + getEnv("PORT", "8080"),
		BaseURL:      strings.TrimRight(getEnv("BASE_URL", ""), "/"),
		IsProduction: getEnv("ENVIRONMENT", "development") == "production",
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		SessionSecret: getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE", 600),

		DatabaseDriver: getEnv("DATABASE_DRIVER", DatabaseDriverSQLite),
		DatabaseDSN:    getEnv("DATABASE_DSN", ""),
		DBInitTimeout:  getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),

		StravaClientID:     getEnv("STRAVA_CLIENT_ID", ""),
		StravaClientSecret: getEnv("STRAVA_CLIENT_SECRET", ""),
		StravaBaseURL: strings.TrimRight(
			getEnv("STRAVA_BASE_URL", "https://www.strava.com"),
			"/",
		),
		StravaAPIURL: strings.TrimRight(
			getEnv("STRAVA_API_URL", "https://www.strava.com/api/v3"),
			"/",
		),
		StravaScopes:       getEnv("STRAVA_SCOPES", "read,activity:read_all"),
		WebhookVerifyToken: getEnv("WEBHOOK_VERIFY_TOKEN", ""),

		PlatformTimeout:       getEnvDuration("PLATFORM_TIMEOUT", 10*time.Second),
		PlatformMaxRetries:    getEnvInt("PLATFORM_MAX_RETRIES", 3),
		PlatformRetryDelay:    getEnvDuration("PLATFORM_RETRY_DELAY", 1*time.Second),
		PlatformMaxRetryDelay: getEnvDuration("PLATFORM_MAX_RETRY_DELAY", 10*time.Second),
		InsecureSkipVerify:    getEnvBool("INSECURE_SKIP_VERIFY", false),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		NotifyTimeout:    getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),

		EventProcessTimeout:  getEnvDuration("EVENT_PROCESS_TIMEOUT", 30*time.Second),
		EventShutdownTimeout: getEnvDuration("EVENT_SHUTDOWN_TIMEOUT", 15*time.Second),
		EventDedupEnabled:    getEnvBool("EVENT_DEDUP_ENABLED", true),
		EventDedupStore:      getEnv("EVENT_DEDUP_STORE", StoreTypeMemory),
		EventDedupTTL:        getEnvDuration("EVENT_DEDUP_TTL", time.Hour),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),

		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", StoreTypeMemory),
		AuthRateLimit:            getEnvInt("AUTH_RATE_LIMIT", 30),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),

		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisConnTimeout: getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),

		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// Validate checks required settings and enumerated values.
// Every missing required variable is reported in a single ErrConfigMissing.
func (c *Config) Validate() error {
	required := []struct {
		env   string
		value string
	}{
		{"STRAVA_CLIENT_ID", c.StravaClientID},
		{"STRAVA_CLIENT_SECRET", c.StravaClientSecret},
		{"NOTIFY_WEBHOOK_URL", c.NotifyWebhookURL},
		{"BASE_URL", c.BaseURL},
		{"WEBHOOK_VERIFY_TOKEN", c.WebhookVerifyToken},
		{"DATABASE_DSN", c.DatabaseDSN},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigMissing, strings.Join(missing, ", "))
	}

	switch c.DatabaseDriver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres, DatabaseDriverFile:
	default:
		return fmt.Errorf(
			"invalid DATABASE_DRIVER value: %q (must be %q, %q or %q)",
			c.DatabaseDriver, DatabaseDriverSQLite, DatabaseDriverPostgres, DatabaseDriverFile,
		)
	}

	if err := c.validateTimings(); err != nil {
		return err
	}

	if c.EnableRateLimit && !validStoreType(c.RateLimitStore) {
		return fmt.Errorf(
			"invalid RATE_LIMIT_STORE value: %q (must be %q or %q)",
			c.RateLimitStore, StoreTypeMemory, StoreTypeRedis,
		)
	}

	if c.EventDedupEnabled {
		if !validStoreType(c.EventDedupStore) {
			return fmt.Errorf(
				"invalid EVENT_DEDUP_STORE value: %q (must be %q or %q)",
				c.EventDedupStore, StoreTypeMemory, StoreTypeRedis,
			)
		}
		if c.EventDedupTTL <= 0 {
			return errors.New("EVENT_DEDUP_TTL must be positive")
		}
	}

	return nil
}

// validateTimings rejects timeouts that would either drop work immediately
// or leave an outbound call unbounded.
func (c *Config) validateTimings() error {
	type bound struct {
		env   string
		value time.Duration
	}
	timeouts := []bound{
		{"DB_INIT_TIMEOUT", c.DBInitTimeout},
		{"PLATFORM_TIMEOUT", c.PlatformTimeout},
		{"NOTIFY_TIMEOUT", c.NotifyTimeout},
		{"EVENT_PROCESS_TIMEOUT", c.EventProcessTimeout},
		{"EVENT_SHUTDOWN_TIMEOUT", c.EventShutdownTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", c.ServerShutdownTimeout},
	}
	if c.NeedsRedis() {
		timeouts = append(timeouts, bound{"REDIS_CONN_TIMEOUT", c.RedisConnTimeout})
	}

	for _, t := range timeouts {
		if t.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", t.env, t.value)
		}
	}

	switch {
	case c.PlatformMaxRetries < 0:
		return fmt.Errorf("PLATFORM_MAX_RETRIES must not be negative, got %d", c.PlatformMaxRetries)
	case c.PlatformRetryDelay < 0:
		return fmt.Errorf("PLATFORM_RETRY_DELAY must not be negative, got %s", c.PlatformRetryDelay)
	case c.PlatformMaxRetryDelay < c.PlatformRetryDelay:
		return fmt.Errorf(
			"PLATFORM_MAX_RETRY_DELAY (%s) must not be below PLATFORM_RETRY_DELAY (%s)",
			c.PlatformMaxRetryDelay, c.PlatformRetryDelay,
		)
	}
	return nil
}

// CallbackURL is the URL the platform posts webhook events to.
func (c *Config) CallbackURL() string {
	return c.BaseURL + WebhookPath
}

// OAuthRedirectURL is the redirect_uri sent with the authorize request.
func (c *Config) OAuthRedirectURL() string {
	return c.BaseURL + AuthCallbackPath
}

// NeedsRedis reports whether any enabled feature is backed by Redis.
func (c *Config) NeedsRedis() bool {
	return (c.EnableRateLimit && c.RateLimitStore == StoreTypeRedis) ||
		(c.EventDedupEnabled && c.EventDedupStore == StoreTypeRedis)
}

func validStoreType(s string) bool {
	return s == StoreTypeMemory || s == StoreTypeRedis
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
