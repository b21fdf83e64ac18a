package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8501 {
		t.Errorf("expected default port 8501, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
	if cfg.Storage.Badger.Path != "./data/argentis" {
		t.Errorf("expected default badger path ./data/argentis, got %s", cfg.Storage.Badger.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Market.Provider != ProviderYahoo {
		t.Errorf("expected default provider yahoo, got %s", cfg.Market.Provider)
	}
}

func TestNewDefaultConfig_RetryAndAnalytics(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Market.Retry.Attempts != 10 {
		t.Errorf("expected 10 attempts, got %d", cfg.Market.Retry.Attempts)
	}
	if cfg.Market.Retry.GetDelay() != 5*time.Second {
		t.Errorf("expected 5s retry delay, got %v", cfg.Market.Retry.GetDelay())
	}
	if cfg.Market.Retry.GetPacing() != 3*time.Second {
		t.Errorf("expected 3s pacing, got %v", cfg.Market.Retry.GetPacing())
	}
	if cfg.Analytics.Simulations != 5000 {
		t.Errorf("expected 5000 simulations, got %d", cfg.Analytics.Simulations)
	}
	if cfg.Analytics.TaxRate != 0.21 {
		t.Errorf("expected tax rate 0.21, got %v", cfg.Analytics.TaxRate)
	}
	if cfg.Analytics.MaxTracking != 20 {
		t.Errorf("expected max tracking 20, got %d", cfg.Analytics.MaxTracking)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 8501 {
		t.Errorf("expected default port 8501, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
environment = "development"

[server]
port = 9090
host = "0.0.0.0"

[market]
provider = "EODHD"
cache_ttl = "15m"

[market.eodhd]
api_key = "demo"

[market.retry]
attempts = 3
delay = "1s"
pacing = "0s"

[analytics]
simulations = 2000
seed = 42

[storage.badger]
path = "/tmp/test-db"

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Environment != "dev" {
		t.Errorf("expected environment dev, got %s", cfg.Environment)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Market.Provider != ProviderEODHD {
		t.Errorf("expected provider eodhd, got %s", cfg.Market.Provider)
	}
	if cfg.Market.GetCacheTTL() != 15*time.Minute {
		t.Errorf("expected cache ttl 15m, got %v", cfg.Market.GetCacheTTL())
	}
	if cfg.Market.Retry.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.Market.Retry.Attempts)
	}
	if cfg.Market.Retry.GetPacing() != 0 {
		t.Errorf("expected zero pacing, got %v", cfg.Market.Retry.GetPacing())
	}
	if cfg.Analytics.Simulations != 2000 {
		t.Errorf("expected 2000 simulations, got %d", cfg.Analytics.Simulations)
	}
	if cfg.Analytics.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Analytics.Seed)
	}
	if cfg.Storage.Badger.Path != "/tmp/test-db" {
		t.Errorf("expected badger path /tmp/test-db, got %s", cfg.Storage.Badger.Path)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format json, got %s", cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadFromFiles_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "partial.toml")

	content := `
[server]
port = 3000
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
	if cfg.Analytics.CostOfEquity != 0.08 {
		t.Errorf("expected default cost of equity 0.08, got %v", cfg.Analytics.CostOfEquity)
	}
}

func TestLoadFromFiles_MultipleFiles(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	baseContent := `
[server]
port = 3000
host = "base-host"
`
	if err := os.WriteFile(base, []byte(baseContent), 0644); err != nil {
		t.Fatal(err)
	}

	override := filepath.Join(dir, "override.toml")
	overrideContent := `
[server]
port = 4000
`
	if err := os.WriteFile(override, []byte(overrideContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("expected port 4000 from override, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "base-host" {
		t.Errorf("expected host base-host from base file, got %s", cfg.Server.Host)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/path.toml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "invalid.toml")

	if err := os.WriteFile(tomlPath, []byte("this is not valid {{toml"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromFiles(tomlPath)
	if err == nil {
		t.Error("expected error for invalid TOML, got nil")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("ARGENTIS_SERVER_PORT", "9999")
	t.Setenv("ARGENTIS_SERVER_HOST", "env-host")
	t.Setenv("ARGENTIS_MARKET_PROVIDER", "yfinance")
	t.Setenv("ARGENTIS_BADGER_PATH", "/env/path")
	t.Setenv("ARGENTIS_LOG_LEVEL", "error")
	t.Setenv("EODHD_API_KEY", "env-key")

	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9999 {
		t.Errorf("expected env port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "env-host" {
		t.Errorf("expected env host env-host, got %s", cfg.Server.Host)
	}
	if cfg.Market.Provider != "yfinance" {
		t.Errorf("expected env provider yfinance, got %s", cfg.Market.Provider)
	}
	if cfg.Storage.Badger.Path != "/env/path" {
		t.Errorf("expected env badger path /env/path, got %s", cfg.Storage.Badger.Path)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env log level error, got %s", cfg.Logging.Level)
	}
	if cfg.Market.EODHD.APIKey != "env-key" {
		t.Errorf("expected env api key env-key, got %s", cfg.Market.EODHD.APIKey)
	}
}

func TestApplyEnvOverrides_PrefixedKeyWins(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("EODHD_API_KEY", "plain")
	t.Setenv("ARGENTIS_EODHD_API_KEY", "prefixed")

	applyEnvOverrides(cfg)

	if cfg.Market.EODHD.APIKey != "prefixed" {
		t.Errorf("expected prefixed key to win, got %s", cfg.Market.EODHD.APIKey)
	}
}

func TestApplyEnvOverrides_InvalidPort(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("ARGENTIS_SERVER_PORT", "not-a-number")

	applyEnvOverrides(cfg)

	if cfg.Server.Port != 8501 {
		t.Errorf("expected default port 8501 for invalid env, got %d", cfg.Server.Port)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 7777, "flag-host")

	if cfg.Server.Port != 7777 {
		t.Errorf("expected flag port 7777, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "flag-host" {
		t.Errorf("expected flag host flag-host, got %s", cfg.Server.Host)
	}
}

func TestApplyFlagOverrides_ZeroPortNoOverride(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 0, "")

	if cfg.Server.Port != 8501 {
		t.Errorf("expected default port 8501, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
}

func TestEnvOverridesFileConfig(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
[server]
port = 3000
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ARGENTIS_SERVER_PORT", "5555")

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 5555 {
		t.Errorf("expected env override port 5555, got %d", cfg.Server.Port)
	}
}

func TestValidate_Defaults(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.Port = 70000
	cfg.Market.Provider = ProviderEODHD
	cfg.Market.Retry.Attempts = 0
	cfg.Analytics.GrowthRate = 0.1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"server.port", "api_key", "attempts", "discount_rate"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error to mention %q, got %q", want, msg)
		}
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Market.Provider = "bloomberg"

	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "bloomberg") {
		t.Errorf("expected unknown provider error, got %v", err)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		value    string
		fallback time.Duration
		expected time.Duration
	}{
		{"2m", time.Hour, 2 * time.Minute},
		{"", time.Hour, time.Hour},
		{"nonsense", 5 * time.Second, 5 * time.Second},
		{"-1s", time.Second, time.Second},
		{"0s", time.Second, 0},
	}
	for _, tt := range tests {
		if got := Duration(tt.value, tt.fallback); got != tt.expected {
			t.Errorf("Duration(%q): expected %v, got %v", tt.value, tt.expected, got)
		}
	}
}

func TestIsProduction(t *testing.T) {
	cfg := NewDefaultConfig()
	if !cfg.IsProduction() {
		t.Error("expected default environment to be production")
	}
	cfg.Environment = normalizeEnvironment("Development")
	if cfg.IsProduction() {
		t.Error("expected dev environment not to be production")
	}
}
