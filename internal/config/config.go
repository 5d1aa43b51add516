package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Server     ServerConfig
	Events     EventsConfig
	SelfHosted bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds JWT authentication settings.
type JWTConfig struct {
	Secret    string //nolint:gosec // G117: JWT signing secret config
	AccessTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSOrigins        []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// EventsConfig holds durable event stream settings.
type EventsConfig struct {
	Stream      string
	Group       string
	Consumer    string
	MaxAttempts int
	BaseBackoff time.Duration
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password) must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("CORKBOARD_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("CORKBOARD_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("CORKBOARD_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	accessTTL, err := getEnvDuration("CORKBOARD_JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("CORKBOARD_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("CORKBOARD_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateLimit, err := getEnvFloat("CORKBOARD_SERVER_RATE_LIMIT", 20)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateBurst, err := getEnvInt("CORKBOARD_SERVER_RATE_BURST", 40)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxAttempts, err := getEnvInt("CORKBOARD_EVENTS_MAX_ATTEMPTS", 5)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	baseBackoff, err := getEnvDuration("CORKBOARD_EVENTS_BASE_BACKOFF", 250*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	selfHosted, err := getEnvBool("CORKBOARD_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("CORKBOARD_CORS_ORIGINS", []string{"http://localhost:5173"})

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "corkboard"
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("CORKBOARD_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("CORKBOARD_DB_USER", "corkboard"),
			Password: getEnv("CORKBOARD_DB_PASSWORD", ""),
			DBName:   getEnv("CORKBOARD_DB_NAME", "corkboard_dev"),
			SSLMode:  getEnv("CORKBOARD_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("CORKBOARD_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("CORKBOARD_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:    getEnv("CORKBOARD_JWT_SECRET", ""),
			AccessTTL: accessTTL,
		},
		Server: ServerConfig{
			Addr:               getEnv("CORKBOARD_SERVER_ADDR", ":8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSOrigins:        corsOrigins,
			RateLimitPerSecond: rateLimit,
			RateLimitBurst:     rateBurst,
		},
		Events: EventsConfig{
			Stream:      getEnv("CORKBOARD_EVENTS_STREAM", "corkboard:events"),
			Group:       getEnv("CORKBOARD_EVENTS_GROUP", "corkboard-workers"),
			Consumer:    getEnv("CORKBOARD_EVENTS_CONSUMER", hostname),
			MaxAttempts: maxAttempts,
			BaseBackoff: baseBackoff,
		},
		SelfHosted: selfHosted,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("CORKBOARD_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("CORKBOARD_JWT_SECRET must be at least 32 characters")
	}

	// DB SSL mode warning for non-self-hosted deployments.
	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("CORKBOARD_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("CORKBOARD_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("CORKBOARD_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("CORKBOARD_JWT_ACCESS_TTL must be positive, got %s", c.JWT.AccessTTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("CORKBOARD_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("CORKBOARD_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimitPerSecond <= 0 {
		return fmt.Errorf("CORKBOARD_SERVER_RATE_LIMIT must be positive, got %g", c.Server.RateLimitPerSecond)
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("CORKBOARD_SERVER_RATE_BURST must be >= 1, got %d", c.Server.RateLimitBurst)
	}
	if c.Events.Stream == "" {
		return errors.New("CORKBOARD_EVENTS_STREAM must not be empty")
	}
	if c.Events.Group == "" {
		return errors.New("CORKBOARD_EVENTS_GROUP must not be empty")
	}
	if c.Events.MaxAttempts < 1 {
		return fmt.Errorf("CORKBOARD_EVENTS_MAX_ATTEMPTS must be >= 1, got %d", c.Events.MaxAttempts)
	}
	if c.Events.BaseBackoff <= 0 {
		return fmt.Errorf("CORKBOARD_EVENTS_BASE_BACKOFF must be positive, got %s", c.Events.BaseBackoff)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
