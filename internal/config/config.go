package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alertops/socstats/internal/stats"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Stats    StatsConfig
	Refresh  RefreshConfig
	Logging  LoggingConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	Environment     string
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	Enabled           bool
	JWTSecret         string
	AccessTokenExpiry time.Duration
}

// StatsConfig contains the metric engine's knobs: the operating window
// used for business-hours cycle times, the record transforms applied
// before aggregation, and the alert-type category map.
type StatsConfig struct {
	BusinessHoursEnabled bool
	StartHour            int
	EndHour              int
	TimeZone             string
	Transforms           []string
	CategoryMapPath      string
}

// RefreshConfig controls the background table refresher.
type RefreshConfig struct {
	Enabled   bool
	Schedule  string // cron expression
	RangeDays int    // how far back each refresh reaches
	Companies []string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string
	Format     string // json or console
	OutputPath string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "socstats"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./socstats.db"),
		},
		Auth: AuthConfig{
			Enabled:           getEnvAsBool("AUTH_ENABLED", false),
			JWTSecret:         getEnv("JWT_SECRET", ""),
			AccessTokenExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", 12*time.Hour),
		},
		Stats: StatsConfig{
			BusinessHoursEnabled: getEnvAsBool("BUSINESS_HOURS_ENABLED", false),
			StartHour:            getEnvAsInt("BUSINESS_HOURS_START", stats.DefaultStartHour),
			EndHour:              getEnvAsInt("BUSINESS_HOURS_END", stats.DefaultEndHour),
			TimeZone:             getEnv("BUSINESS_HOURS_TZ", stats.DefaultTimeZone),
			Transforms:           getEnvAsSlice("STATS_TRANSFORMS", nil),
			CategoryMapPath:      getEnv("CATEGORY_MAP_PATH", ""),
		},
		Refresh: RefreshConfig{
			Enabled:   getEnvAsBool("REFRESH_ENABLED", true),
			Schedule:  getEnv("REFRESH_SCHEDULE", "@every 15m"),
			RangeDays: getEnvAsInt("REFRESH_RANGE_DAYS", 365),
			Companies: getEnvAsSlice("REFRESH_COMPANIES", nil),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Auth.Enabled && c.JWTSecretMissing() {
		return fmt.Errorf("JWT_SECRET must be set when AUTH_ENABLED is true")
	}

	if c.Refresh.RangeDays < 1 {
		return fmt.Errorf("invalid refresh range: %d days", c.Refresh.RangeDays)
	}

	// fail fast on a bad operating window rather than at first use
	if c.Stats.BusinessHoursEnabled {
		if _, err := c.BusinessTimeWindow(); err != nil {
			return err
		}
	}

	for _, name := range c.Stats.Transforms {
		if _, err := stats.LookupTransform(name); err != nil {
			return err
		}
	}

	return nil
}

// JWTSecretMissing reports whether no usable signing secret is set.
func (c *Config) JWTSecretMissing() bool {
	return strings.TrimSpace(c.Auth.JWTSecret) == ""
}

// BusinessTimeWindow builds the configured operating window, or nil
// when business-hours adjustment is disabled.
func (c *Config) BusinessTimeWindow() (*stats.BusinessTimeWindow, error) {
	if !c.Stats.BusinessHoursEnabled {
		return nil, nil
	}
	return stats.NewBusinessTimeWindow(c.Stats.StartHour, c.Stats.EndHour, c.Stats.TimeZone, stats.DefaultHolidays())
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
