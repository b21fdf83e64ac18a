package config

import "github.com/bobmcallan/argentis/internal/common"

// Market data providers.
const (
	ProviderYahoo    = "yahoo"
	ProviderEODHD    = "eodhd"
	ProviderYFinance = "yfinance"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 8501,
			Host: "localhost",
		},
		Market: MarketConfig{
			Provider:     ProviderYahoo,
			CacheTTL:     "1h",
			CacheEntries: 256,
			SnapshotTTL:  "6h",
			Retry: RetryConfig{
				Attempts: 10,
				Delay:    "5s",
				Pacing:   "3s",
			},
			Yahoo: YahooConfig{
				BaseURL:   "https://query2.finance.yahoo.com",
				CookieURL: "https://fc.yahoo.com",
				Timeout:   "30s",
			},
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				Exchange:  "US",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Analytics: AnalyticsConfig{
			CostOfEquity: 0.08,
			CostOfDebt:   0.04,
			TaxRate:      0.21,
			GrowthRate:   0.02,
			DiscountRate: 0.08,
			DCFYears:     5,
			Simulations:  5000,
			MaxPortfolio: 10,
			MaxTracking:  20,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/argentis",
			},
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console"},
			FilePath:   "logs/argentis.log",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}
