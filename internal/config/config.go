package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/argentis/internal/common"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string               `toml:"environment"`
	Server      ServerConfig         `toml:"server"`
	Market      MarketConfig         `toml:"market"`
	Analytics   AnalyticsConfig      `toml:"analytics"`
	Storage     StorageConfig        `toml:"storage"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// MarketConfig selects the market data provider and controls fetch behaviour.
type MarketConfig struct {
	Provider     string       `toml:"provider"` // "yahoo", "eodhd" or "yfinance"
	CacheTTL     string       `toml:"cache_ttl"`
	CacheEntries int          `toml:"cache_entries"`
	SnapshotTTL  string       `toml:"snapshot_ttl"`
	Retry        RetryConfig  `toml:"retry"`
	Yahoo        YahooConfig  `toml:"yahoo"`
	EODHD        EODHDConfig  `toml:"eodhd"`
}

// RetryConfig holds the fixed-delay retry policy applied to every outbound call.
type RetryConfig struct {
	Attempts int    `toml:"attempts"`
	Delay    string `toml:"delay"`
	Pacing   string `toml:"pacing"`
}

// YahooConfig holds Yahoo Finance HTTP endpoints.
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	CookieURL string `toml:"cookie_url"`
	Timeout   string `toml:"timeout"`
}

// EODHDConfig holds EODHD API configuration.
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	Exchange  string `toml:"exchange"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// AnalyticsConfig holds the constants used by the valuation and simulation pages.
type AnalyticsConfig struct {
	CostOfEquity float64 `toml:"cost_of_equity"`
	CostOfDebt   float64 `toml:"cost_of_debt"`
	TaxRate      float64 `toml:"tax_rate"`
	GrowthRate   float64 `toml:"growth_rate"`
	DiscountRate float64 `toml:"discount_rate"`
	DCFYears     int     `toml:"dcf_years"`
	Simulations  int     `toml:"simulations"`
	MaxPortfolio int     `toml:"max_portfolio"`
	MaxTracking  int     `toml:"max_tracking"`
	Seed         uint64  `toml:"seed"` // 0 seeds from the clock
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	config.Environment = normalizeEnvironment(config.Environment)
	config.Market.Provider = strings.ToLower(strings.TrimSpace(config.Market.Provider))

	return config, nil
}

// applyEnvOverrides applies ARGENTIS_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ARGENTIS_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("ARGENTIS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ARGENTIS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if provider := os.Getenv("ARGENTIS_MARKET_PROVIDER"); provider != "" {
		config.Market.Provider = provider
	}
	for _, name := range []string{"EODHD_API_KEY", "ARGENTIS_EODHD_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			config.Market.EODHD.APIKey = key
		}
	}
	if badgerPath := os.Getenv("ARGENTIS_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if level := os.Getenv("ARGENTIS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("ARGENTIS_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate reports configuration that would prevent the service from starting.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.Market.Provider {
	case ProviderYahoo, ProviderYFinance:
	case ProviderEODHD:
		if c.Market.EODHD.APIKey == "" {
			errs = append(errs, errors.New("market.eodhd.api_key is required for the eodhd provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown market.provider %q", c.Market.Provider))
	}
	if c.Market.Retry.Attempts < 1 {
		errs = append(errs, errors.New("market.retry.attempts must be at least 1"))
	}
	if c.Analytics.DiscountRate <= c.Analytics.GrowthRate {
		errs = append(errs, errors.New("analytics.discount_rate must exceed analytics.growth_rate"))
	}
	return errors.Join(errs...)
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

// normalizeEnvironment maps "development" and "production" to "dev" and "prod".
func normalizeEnvironment(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "development":
		return "dev"
	case "production":
		return "prod"
	default:
		return strings.ToLower(strings.TrimSpace(env))
	}
}

// Duration parses a configured duration string, returning fallback when empty or invalid.
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// GetCacheTTL returns the in-memory cache lifetime.
func (c *MarketConfig) GetCacheTTL() time.Duration {
	return Duration(c.CacheTTL, time.Hour)
}

// GetSnapshotTTL returns how long a persisted snapshot is served without refetching.
func (c *MarketConfig) GetSnapshotTTL() time.Duration {
	return Duration(c.SnapshotTTL, 6*time.Hour)
}

// GetDelay returns the wait between retry attempts.
func (c *RetryConfig) GetDelay() time.Duration {
	return Duration(c.Delay, 5*time.Second)
}

// GetPacing returns the minimum spacing between outbound requests.
func (c *RetryConfig) GetPacing() time.Duration {
	return Duration(c.Pacing, 3*time.Second)
}

// GetTimeout parses and returns the timeout duration.
func (c *YahooConfig) GetTimeout() time.Duration {
	return Duration(c.Timeout, 30*time.Second)
}

// GetTimeout parses and returns the timeout duration.
func (c *EODHDConfig) GetTimeout() time.Duration {
	return Duration(c.Timeout, 30*time.Second)
}
