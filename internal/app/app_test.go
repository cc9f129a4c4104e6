package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewApp_InitializesAllServices verifies that NewApp creates an App with
// storage, the market client, and all services initialized and non-nil.
func TestNewApp_InitializesAllServices(t *testing.T) {
	clearPortalEnv(t)
	configPath := writeTestConfig(t)

	a, err := NewApp(configPath)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	if a.Config == nil {
		t.Error("Config is nil")
	}
	if a.Logger == nil {
		t.Error("Logger is nil")
	}
	if a.Storage == nil {
		t.Error("Storage is nil")
	}
	if a.MarketClient == nil {
		t.Error("MarketClient is nil")
	}
	if a.CatalogService == nil {
		t.Error("CatalogService is nil")
	}
	if a.MarketService == nil {
		t.Error("MarketService is nil")
	}
	if a.AdvisorService == nil {
		t.Error("AdvisorService is nil")
	}
	if a.StartupTime.IsZero() {
		t.Error("StartupTime is zero")
	}
}

// TestNewApp_PortalUnconfiguredLeavesClientNil verifies that without
// credentials the portal client stays nil and Login reports it.
func TestNewApp_PortalUnconfiguredLeavesClientNil(t *testing.T) {
	clearPortalEnv(t)
	configPath := writeTestConfig(t)

	a, err := NewApp(configPath)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	if a.PortalClient != nil {
		t.Error("PortalClient should be nil without credentials")
	}

	_, err = a.Login(context.Background())
	if err == nil {
		t.Fatal("Login should fail without portal configuration")
	}
	if !strings.Contains(err.Error(), "not configured") {
		t.Errorf("Login error = %v", err)
	}
}

// TestNewApp_PortalConfiguredFromEnv verifies that credentials supplied
// through the environment enable the portal client.
func TestNewApp_PortalConfiguredFromEnv(t *testing.T) {
	clearPortalEnv(t)
	t.Setenv("BOURSTAD_LOGIN_URL", "https://portal.example.com/login")
	t.Setenv("BOURSTAD_USERNAME", "trader@example.com")
	t.Setenv("BOURSTAD_PASSWORD", "hunter2")
	configPath := writeTestConfig(t)

	a, err := NewApp(configPath)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	if a.PortalClient == nil {
		t.Error("PortalClient should be configured from environment")
	}
}

// TestNewApp_CloseIsIdempotent verifies that calling Close multiple times
// does not panic.
func TestNewApp_CloseIsIdempotent(t *testing.T) {
	clearPortalEnv(t)
	configPath := writeTestConfig(t)

	a, err := NewApp(configPath)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	a.Close()
	a.Close()
}

// TestNewApp_InvalidConfigReturnsError verifies that an invalid config file
// returns a meaningful error.
func TestNewApp_InvalidConfigReturnsError(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "bad.toml")
	os.WriteFile(configPath, []byte("{{{{invalid toml"), 0644)

	_, err := NewApp(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid config content, got nil")
	}
}

// --- test helpers ---

// writeTestConfig creates a minimal bourstad.toml in a temp directory.
// No credentials are configured — the portal client will be nil.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	config := `
[storage.data]
path = "` + filepath.Join(dir, "data") + `"

[logging]
level = "error"
format = "console"
`
	configPath := filepath.Join(dir, "bourstad.toml")
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

// clearPortalEnv blanks every portal variable so ambient shell state
// cannot configure a client behind the test's back.
func clearPortalEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOURSTAD_LOGIN_URL",
		"BOURSTAD_STOCKS_URL",
		"BOURSTAD_DETAIL_URL",
		"BOURSTAD_HOLDINGS_URL",
		"BOURSTAD_USERNAME",
		"BOURSTAD_PASSWORD",
		"BOURSTAD_DATA_PATH",
	} {
		t.Setenv(key, "")
	}
}
