// Package config loads application configuration from defaults, an
// optional YAML file, and environment variables, in that order of
// precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Scan     ScanConfig     `yaml:"scan"`
	Monitor  MonitorConfig  `yaml:"monitor"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name string `yaml:"name"`
	Env  string `yaml:"env"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	MaxBodySize       int64         `yaml:"max_body_size"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig holds database configuration. Driver selects the
// persistence backend: "postgres" for durable storage, "memory" for
// a capped in-process store.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// FetcherConfig holds page fetcher configuration.
type FetcherConfig struct {
	Timeout               time.Duration `yaml:"timeout"`
	MaxRedirects          int           `yaml:"max_redirects"`
	MaxBodyBytes          int64         `yaml:"max_body_bytes"`
	UserAgent             string        `yaml:"user_agent"`
	RequestsPerSecond     float64       `yaml:"requests_per_second"`
	Burst                 int           `yaml:"burst"`
	BlockPrivateAddresses bool          `yaml:"block_private_addresses"`
}

// ScanConfig holds scan store configuration.
type ScanConfig struct {
	// MaxHistory caps the retained scan records; oldest evicted first.
	MaxHistory int `yaml:"max_history"`
}

// MonitorConfig holds monitor scheduler configuration.
type MonitorConfig struct {
	Enabled      bool          `yaml:"enabled"`
	TickInterval time.Duration `yaml:"tick_interval"`
	Concurrency  int           `yaml:"concurrency"`
}

// Load builds the configuration: defaults, then the optional YAML
// file named by CONFIG_FILE, then environment variable overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name: "a11ylens",
			Env:  "development",
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			MaxBodySize:       1 << 20,
			RequestsPerMinute: 120,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Driver:          "memory",
			Host:            "localhost",
			Port:            5432,
			User:            "a11ylens",
			Password:        "",
			Name:            "a11ylens",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Fetcher: FetcherConfig{
			Timeout:           15 * time.Second,
			MaxRedirects:      5,
			MaxBodyBytes:      5 * 1024 * 1024,
			UserAgent:         "a11ylens-scanner/1.0 (+https://a11ylens.dev/bot)",
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Scan: ScanConfig{
			MaxHistory: 100,
		},
		Monitor: MonitorConfig{
			Enabled:      true,
			TickInterval: time.Hour,
			Concurrency:  3,
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.App.Name = getEnvString("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnvString("APP_ENV", cfg.App.Env)

	cfg.Server.Host = getEnvString("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.RequestsPerMinute = getEnvInt("SERVER_REQUESTS_PER_MINUTE", cfg.Server.RequestsPerMinute)

	cfg.Log.Level = getEnvString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvString("LOG_FORMAT", cfg.Log.Format)

	cfg.Database.Driver = getEnvString("DATABASE_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = getEnvString("DATABASE_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvInt("DATABASE_PORT", cfg.Database.Port)
	cfg.Database.User = getEnvString("DATABASE_USER", cfg.Database.User)
	cfg.Database.Password = getEnvString("DATABASE_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnvString("DATABASE_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = getEnvString("DATABASE_SSL_MODE", cfg.Database.SSLMode)

	cfg.Fetcher.Timeout = getEnvDuration("FETCHER_TIMEOUT", cfg.Fetcher.Timeout)
	cfg.Fetcher.MaxRedirects = getEnvInt("FETCHER_MAX_REDIRECTS", cfg.Fetcher.MaxRedirects)
	cfg.Fetcher.MaxBodyBytes = getEnvInt64("FETCHER_MAX_BODY_BYTES", cfg.Fetcher.MaxBodyBytes)
	cfg.Fetcher.UserAgent = getEnvString("FETCHER_USER_AGENT", cfg.Fetcher.UserAgent)
	cfg.Fetcher.RequestsPerSecond = getEnvFloat("FETCHER_REQUESTS_PER_SECOND", cfg.Fetcher.RequestsPerSecond)
	cfg.Fetcher.Burst = getEnvInt("FETCHER_BURST", cfg.Fetcher.Burst)
	cfg.Fetcher.BlockPrivateAddresses = getEnvBool("FETCHER_BLOCK_PRIVATE_ADDRESSES", cfg.Fetcher.BlockPrivateAddresses)

	cfg.Scan.MaxHistory = getEnvInt("SCAN_MAX_HISTORY", cfg.Scan.MaxHistory)

	cfg.Monitor.Enabled = getEnvBool("MONITOR_ENABLED", cfg.Monitor.Enabled)
	cfg.Monitor.TickInterval = getEnvDuration("MONITOR_TICK_INTERVAL", cfg.Monitor.TickInterval)
	cfg.Monitor.Concurrency = getEnvInt("MONITOR_CONCURRENCY", cfg.Monitor.Concurrency)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "memory" {
		return fmt.Errorf("invalid database driver: %s", c.Database.Driver)
	}
	if c.Scan.MaxHistory < 1 {
		return fmt.Errorf("scan max_history must be positive")
	}
	if c.Monitor.TickInterval < time.Minute {
		return fmt.Errorf("monitor tick_interval must be at least one minute")
	}
	if c.Monitor.Concurrency < 1 {
		return fmt.Errorf("monitor concurrency must be positive")
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
