package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

type Config struct {
	ServerPort      string
	MetricsPort     string
	AppEnv          string
	LogLevel        string
	LogFormat       string
	MigrateOnStart  bool
	ShutdownTimeout time.Duration
	DB              DBConfig
	Auth            AuthConfig
	RateLimit       RateLimitConfig
	Tracing         TracingConfig
}

// ParseLogLevel falls back to info for unknown levels.
func (c Config) ParseLogLevel() zapcore.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (c Config) IsLocal() bool {
	return c.AppEnv == "local"
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if _, err := strconv.Atoi(c.MetricsPort); err != nil {
		return fmt.Errorf("invalid METRICS_PORT %q: %w", c.MetricsPort, err)
	}
	if c.ServerPort == c.MetricsPort {
		return fmt.Errorf("METRICS_PORT must differ from SERVER_PORT")
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid LOG_FORMAT %q: must be json or console", c.LogFormat)
	}
	if c.DB.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.DB.MaxOpenConns)
	}
	if c.DB.MaxIdleConns < 0 || c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS, got %d", c.DB.MaxIdleConns)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst == 0 {
		return fmt.Errorf("RATE_LIMIT_BURST is required when RATE_LIMIT_RPS is set")
	}
	if c.AppEnv == "prod" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in prod environment")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("OTLP_ENDPOINT is required when TRACING_ENABLED is set")
	}
	return nil
}

type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

// AuthConfig enables bearer token checks when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string
}

func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// RateLimitConfig disables limiting when RPS is zero.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

// Load reads a .env file when present and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ServerPort:      envOrDefault("SERVER_PORT", "8080"),
		MetricsPort:     envOrDefault("METRICS_PORT", "9090"),
		AppEnv:          envOrDefault("APP_ENV", "local"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       strings.ToLower(envOrDefault("LOG_FORMAT", "json")),
		MigrateOnStart:  envBool("MIGRATE_ON_START", false),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DB: DBConfig{
			Host:            envOrDefault("DB_HOST", "localhost"),
			Port:            envOrDefault("DB_PORT", "5432"),
			User:            envOrDefault("DB_USER", "todo"),
			Password:        envOrDefault("DB_PASSWORD", "todo"),
			Name:            envOrDefault("DB_NAME", "todo"),
			SSLMode:         envOrDefault("DB_SSLMODE", "disable"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			QueryTimeout:    envDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			RPS:   envFloat("RATE_LIMIT_RPS", 0),
			Burst: envInt("RATE_LIMIT_BURST", 0),
		},
		Tracing: TracingConfig{
			Enabled:     envBool("TRACING_ENABLED", false),
			Endpoint:    os.Getenv("OTLP_ENDPOINT"),
			ServiceName: envOrDefault("OTEL_SERVICE_NAME", "todos-api"),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}

func envFloat(key string, defaultVal float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func envBool(key string, defaultVal bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}
