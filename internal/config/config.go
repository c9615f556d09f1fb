package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config aggregates runtime configuration for the console and CLI.
type Config struct {
	App      AppConfig
	API      APIConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Console  ConsoleConfig
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

// APIConfig points at the ScaleBit API gateway.
type APIConfig struct {
	BaseURL string
}

// StoreConfig selects where the raw bearer token is kept.
type StoreConfig struct {
	Backend string
	Dir     string
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
	Addr            string
	Password        string
	DB              int
	KeyPrefix       string
	TokenTTLMinutes int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ConsoleConfig tunes the web console session handling.
type ConsoleConfig struct {
	CookieName              string
	CookieSecure            bool
	BounceAuthenticated     bool
	RegisterRedirectDelayMS int
}

// Load reads configuration from environment variables, applying defaults where possible.
// defaultStore is used when TOKEN_STORE is unset; the CLI passes "file" and the console "memory".
func Load(defaultStore string) (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := strings.ToLower(getEnv("TOKEN_STORE", defaultStore))
	switch backend {
	case StoreMemory, StoreFile, StoreRedis, StorePostgres:
	default:
		return nil, fmt.Errorf("invalid TOKEN_STORE %q", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "scalebit-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost"), "/"),
		},
		Store: StoreConfig{
			Backend: backend,
			Dir:     getEnv("TOKEN_DIR", defaultTokenDir()),
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
			Addr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			KeyPrefix:       getEnv("REDIS_KEY_PREFIX", "scalebit:console:"),
			TokenTTLMinutes: getEnvAsInt("REDIS_TOKEN_TTL_MINUTES", 1440),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Console: ConsoleConfig{
			CookieName:              getEnv("CONSOLE_COOKIE_NAME", "scalebit_sid"),
			CookieSecure:            getEnvAsBool("CONSOLE_COOKIE_SECURE", false),
			BounceAuthenticated:     getEnvAsBool("CONSOLE_BOUNCE_AUTHENTICATED", false),
			RegisterRedirectDelayMS: getEnvAsInt("REGISTER_REDIRECT_DELAY_MS", 1500),
		},
	}

	if backend == StorePostgres && cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("TOKEN_STORE=postgres requires POSTGRES_DSN")
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

// TokenTTL returns how long a redis slot lives; zero means no expiry.
func (r RedisConfig) TokenTTL() time.Duration {
	if r.TokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(r.TokenTTLMinutes) * time.Minute
}

// RegisterRedirectDelay is the pause between a successful registration and the login redirect.
func (c ConsoleConfig) RegisterRedirectDelay() time.Duration {
	if c.RegisterRedirectDelayMS < 0 {
		return 0
	}
	return time.Duration(c.RegisterRedirectDelayMS) * time.Millisecond
}

func defaultTokenDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".scalebit"
	}
	return filepath.Join(dir, "scalebit")
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
