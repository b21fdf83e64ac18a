package interfaces

import (
	"context"

	"github.com/bobmcallan/argentis/internal/models"
)

// MarketDataProvider fetches raw market data for a single symbol.
// Implementations wrap models.ErrTickerNotFound, models.ErrNoData and
// models.ErrNotSupported so callers can tell permanent failures apart.
type MarketDataProvider interface {
	Name() string
	GetInfo(ctx context.Context, symbol string) (*models.Info, error)
	GetHistory(ctx context.Context, symbol string, period models.Period) ([]models.Bar, error)
	GetSustainability(ctx context.Context, symbol string) (*models.ESGScores, error)
	GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error)
}

// MarketService is the cached, retrying view over a provider used by handlers and tools.
type MarketService interface {
	GetTickerData(ctx context.Context, symbol string) (*models.TickerData, error)
	GetHistory(ctx context.Context, symbol string, period models.Period) ([]models.Bar, error)
	GetHistories(ctx context.Context, symbols []string, period models.Period) (map[string][]models.Bar, []string, error)
	Invalidate(ctx context.Context, symbol string) error
	ProviderName() string
}
