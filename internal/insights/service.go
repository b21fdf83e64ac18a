// Package insights turns market data into the figures behind the dashboard
// pages, the JSON API and the MCP tools.
package insights

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/argentis/internal/analytics"
	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/config"
	"github.com/bobmcallan/argentis/internal/interfaces"
	"github.com/bobmcallan/argentis/internal/models"
)

const fetchConcurrency = 4

// Service computes page results from a market service.
type Service struct {
	market interfaces.MarketService
	prefs  interfaces.KeyValueStorage
	cfg    config.AnalyticsConfig
	logger *common.Logger
	now    func() time.Time
}

// NewService creates an insights service. prefs may be nil.
func NewService(market interfaces.MarketService, prefs interfaces.KeyValueStorage, cfg *config.AnalyticsConfig, logger *common.Logger) *Service {
	return &Service{
		market: market,
		prefs:  prefs,
		cfg:    *cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Limits returns the configured maximum portfolio rows and tracked tickers.
func (s *Service) Limits() (portfolio, tracking int) {
	return s.cfg.MaxPortfolio, s.cfg.MaxTracking
}

// ProviderName names the market data provider in use.
func (s *Service) ProviderName() string {
	return s.market.ProviderName()
}

// Refresh drops cached data for a symbol.
func (s *Service) Refresh(ctx context.Context, symbol string) error {
	sym := models.NormalizeSymbol(symbol)
	if sym == "" {
		return userError(ErrInvalidInput, "Veuillez saisir un symbole ou une compagnie.")
	}
	s.logger.Info().Str("symbol", sym).Msg("Refreshing ticker data")
	return s.market.Invalidate(ctx, sym)
}

// rng returns a generator per call; math/rand/v2 generators are not safe for concurrent use.
func (s *Service) rng() *rand.Rand {
	return analytics.NewRand(s.cfg.Seed)
}

func (s *Service) valuationParams() analytics.ValuationParams {
	return analytics.ValuationParams{
		CostOfEquity: s.cfg.CostOfEquity,
		CostOfDebt:   s.cfg.CostOfDebt,
		TaxRate:      s.cfg.TaxRate,
		GrowthRate:   s.cfg.GrowthRate,
		DiscountRate: s.cfg.DiscountRate,
		Years:        s.cfg.DCFYears,
	}
}

func requireSymbol(symbol string) (string, error) {
	sym := models.NormalizeSymbol(symbol)
	if sym == "" {
		return "", userError(ErrInvalidInput, "Veuillez saisir un symbole ou une compagnie.")
	}
	return sym, nil
}

// requireSymbols accepts entries that may themselves be comma-separated lists.
func requireSymbols(symbols []string) ([]string, error) {
	out := models.ParseSymbols(strings.Join(symbols, ","))
	if len(out) == 0 {
		return nil, userError(ErrInvalidInput, "Veuillez saisir au moins un ticker valide.")
	}
	return out, nil
}

// fetchAll loads ticker bundles concurrently. errs[i] is set when datas[i] is nil.
func (s *Service) fetchAll(ctx context.Context, symbols []string) ([]*models.TickerData, []error) {
	datas := make([]*models.TickerData, len(symbols))
	errs := make([]error, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, sym := range symbols {
		g.Go(func() error {
			datas[i], errs[i] = s.market.GetTickerData(gctx, sym)
			return nil
		})
	}
	_ = g.Wait()
	return datas, errs
}
