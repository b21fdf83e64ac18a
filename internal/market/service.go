// Package market provides the cached, retrying market data service that sits
// between the HTTP handlers and a MarketDataProvider.
package market

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/argentis/internal/cache"
	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/config"
	"github.com/bobmcallan/argentis/internal/interfaces"
	"github.com/bobmcallan/argentis/internal/models"
)

// NewsLimit is the number of headlines kept per ticker bundle.
const NewsLimit = 10

// BundlePeriod is the history window fetched with every ticker bundle.
const BundlePeriod = models.Period5Y

// sharedFetchTimeout bounds a coalesced fetch once it no longer follows its first caller.
const sharedFetchTimeout = 3 * time.Minute

// Service implements interfaces.MarketService.
type Service struct {
	provider    interfaces.MarketDataProvider
	snapshots   interfaces.SnapshotStorage
	tickers     *cache.Cache[*models.TickerData]
	histories   *cache.Cache[[]models.Bar]
	group       singleflight.Group
	limiter     *rate.Limiter
	attempts    int
	delay       time.Duration
	snapshotTTL time.Duration
	fetchTTL    time.Duration
	logger      *common.Logger
	now         func() time.Time
}

var _ interfaces.MarketService = (*Service)(nil)

// NewService creates a market service. snapshots may be nil to disable persistence.
func NewService(provider interfaces.MarketDataProvider, snapshots interfaces.SnapshotStorage, cfg *config.MarketConfig, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	attempts := cfg.Retry.Attempts
	if attempts < 1 {
		attempts = 1
	}

	limit := rate.Inf
	if pacing := cfg.Retry.GetPacing(); pacing > 0 {
		limit = rate.Every(pacing)
	}

	ttl := cfg.GetCacheTTL()
	return &Service{
		provider:    provider,
		snapshots:   snapshots,
		tickers:     cache.New[*models.TickerData](ttl, cfg.CacheEntries),
		histories:   cache.New[[]models.Bar](ttl, cfg.CacheEntries),
		limiter:     rate.NewLimiter(limit, 1),
		attempts:    attempts,
		delay:       cfg.Retry.GetDelay(),
		snapshotTTL: cfg.GetSnapshotTTL(),
		fetchTTL:    sharedFetchTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// shared runs fn once for all concurrent callers of key. fn gets a context
// detached from the first caller's cancellation and bounded by fetchTTL; each
// caller stops waiting when its own ctx is done.
func (s *Service) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := s.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTTL)
		defer cancel()
		return fn(fctx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// isPermanent reports errors that another attempt cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, models.ErrTickerNotFound) ||
		errors.Is(err, models.ErrNoData) ||
		errors.Is(err, models.ErrNotSupported)
}

// call runs fn under the pacing limiter with a constant-delay retry policy.
func (s *Service) call(ctx context.Context, op, symbol string, fn func(context.Context) error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.delay), uint64(s.attempts-1)),
		ctx,
	)

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		if err := s.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		err := fn(ctx)
		if err != nil && isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, next time.Duration) {
		s.logger.Warn().
			Str("provider", s.provider.Name()).
			Str("op", op).
			Str("symbol", symbol).
			Int("attempt", attempt).
			Int("max_attempts", s.attempts).
			Dur("next", next).
			Err(err).
			Msg("Market data request failed, retrying")
	})
	if err == nil {
		return nil
	}

	if isPermanent(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%s %s after %d attempts: %w: %w", op, symbol, attempt, models.ErrProviderUnavailable, err)
}

// GetTickerData returns the info, 5y history, sustainability and news bundle for a symbol.
func (s *Service) GetTickerData(ctx context.Context, symbol string) (*models.TickerData, error) {
	sym := models.NormalizeSymbol(symbol)
	if sym == "" {
		return nil, fmt.Errorf("empty symbol: %w", models.ErrTickerNotFound)
	}

	key := cache.MakeKey("ticker", sym)
	if data, ok := s.tickers.Get(key); ok {
		return data, nil
	}

	v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		if data, ok := s.tickers.Get(key); ok {
			return data, nil
		}

		if s.snapshots != nil {
			data, ok, err := s.snapshots.LoadTicker(ctx, sym, s.snapshotTTL)
			if err != nil {
				s.logger.Warn().Str("symbol", sym).Err(err).Msg("Failed to load ticker snapshot")
			} else if ok {
				s.tickers.Set(key, data)
				return data, nil
			}
		}

		data, err := s.fetchTicker(ctx, sym)
		if err != nil {
			return nil, err
		}

		s.tickers.Set(key, data)
		if s.snapshots != nil {
			if err := s.snapshots.SaveTicker(ctx, data); err != nil {
				s.logger.Warn().Str("symbol", sym).Err(err).Msg("Failed to save ticker snapshot")
			}
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.TickerData), nil
}

func (s *Service) fetchTicker(ctx context.Context, sym string) (*models.TickerData, error) {
	start := s.now()
	data := &models.TickerData{Symbol: sym}

	err := s.call(ctx, "info", sym, func(ctx context.Context) error {
		info, err := s.provider.GetInfo(ctx, sym)
		if err != nil {
			return err
		}
		data.Info = info
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.call(ctx, "history", sym, func(ctx context.Context) error {
		bars, err := s.provider.GetHistory(ctx, sym, BundlePeriod)
		if err != nil {
			return err
		}
		data.History = bars
		return nil
	})
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil || !models.ValidHistory(data.History) {
		s.logger.Warn().Str("symbol", sym).Int("bars", len(data.History)).Err(err).Msg("Invalid price history, continuing without it")
		data.History = nil
	} else {
		s.histories.Set(cache.MakeKey("history", sym, string(BundlePeriod)), data.History)
	}

	err = s.call(ctx, "sustainability", sym, func(ctx context.Context) error {
		esg, err := s.provider.GetSustainability(ctx, sym)
		if err != nil {
			return err
		}
		data.Sustainability = esg
		return nil
	})
	s.optional(ctx, "sustainability", sym, err)

	err = s.call(ctx, "news", sym, func(ctx context.Context) error {
		news, err := s.provider.GetNews(ctx, sym, NewsLimit)
		if err != nil {
			return err
		}
		data.News = news
		return nil
	})
	s.optional(ctx, "news", sym, err)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	data.FetchedAt = s.now()
	s.logger.Info().
		Str("provider", s.provider.Name()).
		Str("symbol", sym).
		Int("bars", len(data.History)).
		Int("news", len(data.News)).
		Bool("esg", !data.Sustainability.Empty()).
		Dur("elapsed", data.FetchedAt.Sub(start)).
		Msg("Fetched ticker data")
	return data, nil
}

// optional logs a failed optional dataset without failing the bundle.
func (s *Service) optional(ctx context.Context, dataset, sym string, err error) {
	switch {
	case err == nil, ctx.Err() != nil:
	case errors.Is(err, models.ErrNotSupported):
		s.logger.Debug().Str("symbol", sym).Str("dataset", dataset).Msg("Dataset not supported by provider")
	default:
		s.logger.Warn().Str("symbol", sym).Str("dataset", dataset).Err(err).Msg("Optional dataset unavailable")
	}
}

// GetHistory returns daily bars for a symbol over period. Fewer than two bars is ErrNoData.
func (s *Service) GetHistory(ctx context.Context, symbol string, period models.Period) ([]models.Bar, error) {
	sym := models.NormalizeSymbol(symbol)
	if sym == "" {
		return nil, fmt.Errorf("empty symbol: %w", models.ErrTickerNotFound)
	}

	key := cache.MakeKey("history", sym, string(period))
	if bars, ok := s.histories.Get(key); ok {
		return bars, nil
	}

	v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		if bars, ok := s.histories.Get(key); ok {
			return bars, nil
		}

		if s.snapshots != nil {
			bars, ok, err := s.snapshots.LoadHistory(ctx, sym, period, s.snapshotTTL)
			if err != nil {
				s.logger.Warn().Str("symbol", sym).Str("period", string(period)).Err(err).Msg("Failed to load history snapshot")
			} else if ok && models.ValidHistory(bars) {
				s.histories.Set(key, bars)
				return bars, nil
			}
		}

		var bars []models.Bar
		err := s.call(ctx, "history", sym, func(ctx context.Context) error {
			b, err := s.provider.GetHistory(ctx, sym, period)
			if err != nil {
				return err
			}
			bars = b
			return nil
		})
		if err != nil {
			return nil, err
		}
		if !models.ValidHistory(bars) {
			return nil, fmt.Errorf("%s %s: %d bars: %w", sym, period, len(bars), models.ErrNoData)
		}

		s.histories.Set(key, bars)
		if s.snapshots != nil {
			if err := s.snapshots.SaveHistory(ctx, sym, period, bars); err != nil {
				s.logger.Warn().Str("symbol", sym).Err(err).Msg("Failed to save history snapshot")
			}
		}
		return bars, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Bar), nil
}

// GetHistories fetches histories for several symbols concurrently. Symbols the
// provider does not know or that lack data are returned in invalid, in input
// order. Any other failure aborts the whole call.
func (s *Service) GetHistories(ctx context.Context, symbols []string, period models.Period) (map[string][]models.Bar, []string, error) {
	var (
		mu      sync.Mutex
		result  = make(map[string][]models.Bar, len(symbols))
		failed  = make(map[string]bool)
		ordered []string
		seen    = make(map[string]bool)
	)
	for _, raw := range symbols {
		sym := models.NormalizeSymbol(raw)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		ordered = append(ordered, sym)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, sym := range ordered {
		g.Go(func() error {
			bars, err := s.GetHistory(gctx, sym, period)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result[sym] = bars
			case isPermanent(err):
				failed[sym] = true
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var invalid []string
	for _, sym := range ordered {
		if failed[sym] {
			invalid = append(invalid, sym)
		}
	}
	if len(invalid) > 0 {
		s.logger.Warn().Strs("symbols", invalid).Str("period", string(period)).Msg("Symbols without usable history")
	}
	return result, invalid, nil
}

// Invalidate drops cached and persisted data for a symbol so the next call refetches it.
func (s *Service) Invalidate(ctx context.Context, symbol string) error {
	sym := models.NormalizeSymbol(symbol)
	s.tickers.Delete(cache.MakeKey("ticker", sym))
	s.histories.InvalidatePrefix(cache.MakeKey("history", sym) + ":")
	if s.snapshots == nil {
		return nil
	}
	return s.snapshots.Purge(ctx, sym)
}
