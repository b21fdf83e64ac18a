package market

import (
	"fmt"

	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/config"
	"github.com/bobmcallan/argentis/internal/interfaces"
	"github.com/bobmcallan/argentis/internal/market/eodhd"
	"github.com/bobmcallan/argentis/internal/market/yahoo"
	"github.com/bobmcallan/argentis/internal/market/yfinance"
)

// NewProvider builds the market data provider selected by cfg.Provider.
func NewProvider(cfg *config.MarketConfig, logger *common.Logger) (interfaces.MarketDataProvider, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	switch cfg.Provider {
	case config.ProviderYahoo, "":
		return yahoo.NewClient(
			yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
			yahoo.WithCookieURL(cfg.Yahoo.CookieURL),
			yahoo.WithTimeout(cfg.Yahoo.GetTimeout()),
			yahoo.WithLogger(logger.ILogger),
		), nil
	case config.ProviderEODHD:
		if cfg.EODHD.APIKey == "" {
			return nil, fmt.Errorf("eodhd provider requires an api key")
		}
		return eodhd.NewClient(cfg.EODHD.APIKey,
			eodhd.WithBaseURL(cfg.EODHD.BaseURL),
			eodhd.WithExchange(cfg.EODHD.Exchange),
			eodhd.WithRateLimit(cfg.EODHD.RateLimit),
			eodhd.WithTimeout(cfg.EODHD.GetTimeout()),
			eodhd.WithLogger(logger.ILogger),
		), nil
	case config.ProviderYFinance:
		return yfinance.NewClient(logger.ILogger), nil
	default:
		return nil, fmt.Errorf("unknown market provider %q", cfg.Provider)
	}
}
