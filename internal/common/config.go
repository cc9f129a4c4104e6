// Package common provides shared utilities for the Bourstad helper
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the helper
type Config struct {
	Environment string         `toml:"environment"`
	Portal      PortalConfig   `toml:"portal"`
	Provider    ProviderConfig `toml:"provider"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
}

// PortalConfig holds Bourstad portal endpoints and login credentials.
// Credentials are normally supplied through the environment (.env) and
// never written back to disk or logged.
type PortalConfig struct {
	LoginURL    string `toml:"login_url"`
	CatalogURL  string `toml:"catalog_url"`
	DetailURL   string `toml:"detail_url"`
	HoldingsURL string `toml:"holdings_url"`
	Email       string `toml:"email"`
	Password    string `toml:"password"`
	RateLimit   int    `toml:"rate_limit"`
	Timeout     string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *PortalConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Configured reports whether the portal can be logged into at all:
// a login URL and both credential fields must be present.
func (c *PortalConfig) Configured() bool {
	return c.LoginURL != "" && c.Email != "" && c.Password != ""
}

// ProviderConfig holds market-data provider configuration. RateLimit is
// requests per second and paces every batch fetch.
type ProviderConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *ProviderConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// StorageConfig holds the on-disk data root. Cache, catalog and page
// snapshots all live beneath it.
type StorageConfig struct {
	Data AreaConfig `toml:"data"`
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"`
	FilePath string `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Portal: PortalConfig{
			DetailURL:   "https://bourstad.cirano.qc.ca/Trader/Transaction",
			HoldingsURL: "https://bourstad.cirano.qc.ca/Trader/dashboard_Part",
			RateLimit:   2,
			Timeout:     "30s",
		},
		Provider: ProviderConfig{
			BaseURL:   "https://query1.finance.yahoo.com",
			RateLimit: 4,
			Timeout:   "30s",
		},
		Storage: StorageConfig{
			Data: AreaConfig{Path: "data"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadEnvFile loads .env files into the process environment when they
// exist. Values already present in the environment win, so exported
// variables always beat file contents.
func LoadEnvFile(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// The BOURSTAD_* names match the ones the portal tooling has always used.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BOURSTAD_ENV"); env != "" {
		config.Environment = env
	}

	if v := os.Getenv("BOURSTAD_LOGIN_URL"); v != "" {
		config.Portal.LoginURL = v
	}
	if v := os.Getenv("BOURSTAD_STOCKS_URL"); v != "" {
		config.Portal.CatalogURL = v
	}
	if v := os.Getenv("BOURSTAD_DETAIL_URL"); v != "" {
		config.Portal.DetailURL = v
	}
	if v := os.Getenv("BOURSTAD_HOLDINGS_URL"); v != "" {
		config.Portal.HoldingsURL = v
	}
	if v := os.Getenv("BOURSTAD_USERNAME"); v != "" {
		config.Portal.Email = v
	}
	if v := os.Getenv("BOURSTAD_PASSWORD"); v != "" {
		config.Portal.Password = v
	}

	if v := os.Getenv("BOURSTAD_PROVIDER_URL"); v != "" {
		config.Provider.BaseURL = v
	}
	if v := os.Getenv("BOURSTAD_PROVIDER_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Provider.RateLimit = n
		}
	}

	if v := os.Getenv("BOURSTAD_DATA_PATH"); v != "" {
		config.Storage.Data.Path = v
	}

	if v := os.Getenv("BOURSTAD_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
