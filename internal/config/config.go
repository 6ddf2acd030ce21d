package config

import (
	"os"
	"strconv"
	"time"

	"goincome/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Source    SourceConfig
	Server    ServerConfig
	Session   SessionConfig
	Dashboard DashboardConfig
	LogLevel  string
}

// SourceConfig holds the statement data source settings
type SourceConfig struct {
	APIKey       string
	BaseURL      string
	Symbol       string
	FetchTimeout time.Duration
	// StatementsFile replaces the remote API with a local XLSX/CSV workbook
	StatementsFile string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// SessionConfig holds per-browser view state settings
type SessionConfig struct {
	TTL time.Duration
}

// DashboardConfig holds presentation settings
type DashboardConfig struct {
	// SurfaceLoadErrors shows empty or failed loads to the user instead of
	// only logging them
	SurfaceLoadErrors bool
}

// Default values
const (
	DefaultBaseURL = "https://financialmodelingprep.com/api/v3"
	DefaultSymbol  = "AAPL"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Source:    loadSourceConfig(),
		Server:    loadServerConfig(),
		Session:   loadSessionConfig(),
		Dashboard: loadDashboardConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadSourceConfig() SourceConfig {
	return SourceConfig{
		APIKey:         os.Getenv("FMP_API_KEY"),
		BaseURL:        getEnvOrDefault("FMP_BASE_URL", DefaultBaseURL),
		Symbol:         getEnvOrDefault("SYMBOL", DefaultSymbol),
		FetchTimeout:   getEnvDurationOrDefault("FETCH_TIMEOUT", 30*time.Second),
		StatementsFile: getEnvOrDefault("STATEMENTS_FILE", ""),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		APIPort: getEnvOrDefault("API_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		TTL: getEnvDurationOrDefault("SESSION_TTL", 2*time.Hour),
	}
}

func loadDashboardConfig() DashboardConfig {
	return DashboardConfig{
		SurfaceLoadErrors: getEnvBoolOrDefault("SURFACE_LOAD_ERRORS", false),
	}
}

func validateConfig(config *Config) error {
	if config.Source.StatementsFile == "" && config.Source.APIKey == "" {
		return errors.ConfigInvalid("FMP_API_KEY is required when STATEMENTS_FILE is not set")
	}
	if config.Source.Symbol == "" {
		return errors.ConfigInvalid("SYMBOL cannot be empty")
	}
	if config.Source.FetchTimeout <= 0 {
		return errors.ConfigInvalid("FETCH_TIMEOUT must be positive")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
