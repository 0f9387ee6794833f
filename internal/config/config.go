package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/anonrelay/internal/filter"
	"github.com/spec-kit/anonrelay/internal/policy"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Relay    RelayConfig
	Notify   NotifyConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines administrator authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// RelayConfig holds the admission-policy knobs.
type RelayConfig struct {
	CooldownSeconds   int
	WindowStart       string
	WindowEnd         string
	FilterMode        string
	Denylist          []string
	AliasImmutable    bool
	SessionTTLSeconds int
}

// NotifyConfig holds dispatcher targets.
type NotifyConfig struct {
	WebhookURL  string
	ChannelID   string
	AdminChatID string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "anonrelay"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Relay: RelayConfig{
			CooldownSeconds:   getEnvAsInt("RELAY_COOLDOWN_SECONDS", 120),
			WindowStart:       os.Getenv("RELAY_WINDOW_START"),
			WindowEnd:         os.Getenv("RELAY_WINDOW_END"),
			FilterMode:        getEnv("RELAY_FILTER_MODE", "wholeword"),
			Denylist:          splitList(os.Getenv("RELAY_DENYLIST")),
			AliasImmutable:    getEnvAsBool("RELAY_ALIAS_IMMUTABLE", false),
			SessionTTLSeconds: getEnvAsInt("SESSION_TTL_SECONDS", 900),
		},
		Notify: NotifyConfig{
			WebhookURL:  getEnv("NOTIFY_WEBHOOK_URL", ""),
			ChannelID:   getEnv("RELAY_CHANNEL_ID", ""),
			AdminChatID: getEnv("RELAY_ADMIN_CHAT_ID", ""),
		},
	}

	if _, err := policy.ParseWindow(cfg.Relay.WindowStart, cfg.Relay.WindowEnd); err != nil {
		return nil, fmt.Errorf("invalid working-hours window: %w", err)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Cooldown returns the minimum interval between a user's submissions.
func (r RelayConfig) Cooldown() time.Duration {
	if r.CooldownSeconds <= 0 {
		return 0
	}
	return time.Duration(r.CooldownSeconds) * time.Second
}

// Window parses the configured working-hours window. Load has already
// validated the strings.
func (r RelayConfig) Window() policy.Window {
	w, _ := policy.ParseWindow(r.WindowStart, r.WindowEnd)
	return w
}

// Mode returns the configured filter mode.
func (r RelayConfig) Mode() filter.Mode {
	return filter.ParseMode(r.FilterMode)
}

// SessionTTL returns the conversation-state expiry.
func (r RelayConfig) SessionTTL() time.Duration {
	if r.SessionTTLSeconds <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(r.SessionTTLSeconds) * time.Second
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
