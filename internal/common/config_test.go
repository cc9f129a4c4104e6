package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Provider.BaseURL != "https://query1.finance.yahoo.com" {
		t.Errorf("Provider.BaseURL default = %q", cfg.Provider.BaseURL)
	}
	if cfg.Provider.RateLimit != 4 {
		t.Errorf("Provider.RateLimit default = %d, want 4", cfg.Provider.RateLimit)
	}
	if cfg.Storage.Data.Path != "data" {
		t.Errorf("Storage.Data.Path default = %q, want %q", cfg.Storage.Data.Path, "data")
	}
	if cfg.Portal.DetailURL == "" || cfg.Portal.HoldingsURL == "" {
		t.Error("portal detail/holdings URLs should have defaults")
	}
	if cfg.Portal.Configured() {
		t.Error("default config should not count as a configured portal")
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("BOURSTAD_LOGIN_URL", "https://portal.test/login")
	t.Setenv("BOURSTAD_STOCKS_URL", "https://portal.test/stocks")
	t.Setenv("BOURSTAD_USERNAME", "user@example.com")
	t.Setenv("BOURSTAD_PASSWORD", "hunter2")
	t.Setenv("BOURSTAD_DATA_PATH", "/tmp/bourstad-data")
	t.Setenv("BOURSTAD_LOG_LEVEL", "debug")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Portal.LoginURL != "https://portal.test/login" {
		t.Errorf("Portal.LoginURL = %q", cfg.Portal.LoginURL)
	}
	if cfg.Portal.CatalogURL != "https://portal.test/stocks" {
		t.Errorf("Portal.CatalogURL = %q", cfg.Portal.CatalogURL)
	}
	if cfg.Portal.Email != "user@example.com" {
		t.Errorf("Portal.Email = %q", cfg.Portal.Email)
	}
	if cfg.Portal.Password != "hunter2" {
		t.Errorf("Portal.Password = %q", cfg.Portal.Password)
	}
	if cfg.Storage.Data.Path != "/tmp/bourstad-data" {
		t.Errorf("Storage.Data.Path = %q", cfg.Storage.Data.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if !cfg.Portal.Configured() {
		t.Error("portal should be configured after env overrides")
	}
}

func TestConfig_ProviderRateLimitEnvOverride(t *testing.T) {
	t.Setenv("BOURSTAD_PROVIDER_RATE_LIMIT", "9")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Provider.RateLimit != 9 {
		t.Errorf("Provider.RateLimit = %d after env override, want 9", cfg.Provider.RateLimit)
	}
}

func TestConfig_ProviderRateLimitEnvInvalid(t *testing.T) {
	t.Setenv("BOURSTAD_PROVIDER_RATE_LIMIT", "not-a-number")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Provider.RateLimit != 4 {
		t.Errorf("Provider.RateLimit = %d, want default 4 for invalid override", cfg.Provider.RateLimit)
	}
}

func TestPortalConfig_GetTimeout(t *testing.T) {
	cfg := PortalConfig{Timeout: "5s"}
	if d := cfg.GetTimeout(); d != 5*time.Second {
		t.Errorf("GetTimeout() = %v, want 5s", d)
	}

	cfg = PortalConfig{Timeout: "garbage"}
	if d := cfg.GetTimeout(); d != 30*time.Second {
		t.Errorf("GetTimeout() = %v, want 30s fallback", d)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bourstad.toml")
	content := `
environment = "production"

[portal]
login_url = "https://portal.file/login"
email = "file@example.com"
password = "from-file"

[provider]
rate_limit = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	if cfg.Portal.LoginURL != "https://portal.file/login" {
		t.Errorf("Portal.LoginURL = %q", cfg.Portal.LoginURL)
	}
	if cfg.Provider.RateLimit != 2 {
		t.Errorf("Provider.RateLimit = %d, want 2", cfg.Provider.RateLimit)
	}
	// Untouched sections keep their defaults.
	if cfg.Provider.BaseURL != "https://query1.finance.yahoo.com" {
		t.Errorf("Provider.BaseURL = %q, want default", cfg.Provider.BaseURL)
	}
}

func TestLoadConfig_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bourstad.toml")
	content := `
[portal]
login_url = "https://portal.file/login"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("BOURSTAD_LOGIN_URL", "https://portal.env/login")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Portal.LoginURL != "https://portal.env/login" {
		t.Errorf("Portal.LoginURL = %q, want env value", cfg.Portal.LoginURL)
	}
}

func TestLoadConfig_MissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/bourstad.toml")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want missing file skipped", err)
	}
	if cfg.Storage.Data.Path != "data" {
		t.Errorf("Storage.Data.Path = %q, want default", cfg.Storage.Data.Path)
	}
}

func TestLoadEnvFile(t *testing.T) {
	os.Unsetenv("BOURSTAD_USERNAME")
	t.Cleanup(func() { os.Unsetenv("BOURSTAD_USERNAME") })

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("BOURSTAD_USERNAME=dotenv@example.com\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	LoadEnvFile(path)

	if got := os.Getenv("BOURSTAD_USERNAME"); got != "dotenv@example.com" {
		t.Errorf("BOURSTAD_USERNAME = %q after LoadEnvFile", got)
	}
}

func TestLoadEnvFile_ExistingEnvWins(t *testing.T) {
	t.Setenv("BOURSTAD_USERNAME", "exported@example.com")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("BOURSTAD_USERNAME=dotenv@example.com\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	LoadEnvFile(path)

	if got := os.Getenv("BOURSTAD_USERNAME"); got != "exported@example.com" {
		t.Errorf("BOURSTAD_USERNAME = %q, exported value should win", got)
	}
}
