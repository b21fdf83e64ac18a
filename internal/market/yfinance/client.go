// Package yfinance adapts the go-yfinance library to interfaces.MarketDataProvider.
package yfinance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/argentis/internal/models"
	"github.com/ternarybob/arbor"
	yfmodels "github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// Client fetches data through go-yfinance. The library has no context support,
// so cancellation is only checked before each call.
type Client struct {
	logger arbor.ILogger
}

// NewClient creates a go-yfinance backed provider.
func NewClient(logger arbor.ILogger) *Client {
	return &Client{logger: logger}
}

// Name identifies the provider in logs.
func (c *Client) Name() string {
	return "yfinance"
}

// classify maps library "not found" failures onto models.ErrTickerNotFound.
func classify(symbol string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not found") || strings.Contains(msg, "no data") || strings.Contains(msg, "delisted") {
		return fmt.Errorf("%s: %v: %w", symbol, err, models.ErrTickerNotFound)
	}
	return fmt.Errorf("%s: %w", symbol, err)
}

// positive returns a pointer to v when it is strictly positive.
func positive(v float64) *float64 {
	if v > 0 {
		return &v
	}
	return nil
}

// nonZero returns a pointer to v unless it is zero.
func nonZero(v float64) *float64 {
	if v != 0 {
		return &v
	}
	return nil
}

// GetInfo fetches the quote summary through go-yfinance.
func (c *Client) GetInfo(ctx context.Context, symbol string) (*models.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker %s: %w", symbol, err)
	}
	defer t.Close()

	info, err := t.Info()
	if err != nil {
		return nil, classify(symbol, err)
	}
	if info == nil {
		return nil, fmt.Errorf("%s: %w", symbol, models.ErrTickerNotFound)
	}

	out := &models.Info{
		Symbol:    symbol,
		LongName:  info.LongName,
		ShortName: info.ShortName,
		Exchange:  info.Exchange,
		Industry:  info.Industry,
		Country:   info.Country,

		CurrentPrice:  positive(info.CurrentPrice),
		PreviousClose: positive(info.RegularMarketPreviousClose),
		MarketCap:     positive(float64(info.MarketCap)),

		TrailingPE:    positive(info.TrailingPE),
		ForwardPE:     positive(info.ForwardPE),
		PriceToBook:   positive(info.PriceToBook),
		DividendYield: positive(info.DividendYield),

		ReturnOnEquity:   nonZero(info.ReturnOnEquity),
		DebtToEquity:     positive(info.DebtToEquity),
		CurrentRatio:     positive(info.CurrentRatio),
		ProfitMargins:    nonZero(info.ProfitMargins),
		OperatingMargins: nonZero(info.OperatingMargins),
		RevenueGrowth:    nonZero(info.RevenueGrowth),
		EarningsGrowth:   nonZero(info.EarningsGrowth),
	}
	if c.logger != nil {
		c.logger.Debug().Str("symbol", symbol).Str("quote_type", info.QuoteType).Msg("go-yfinance info fetched")
	}
	return out, nil
}

// GetHistory fetches daily bars for period.
func (c *Client) GetHistory(ctx context.Context, symbol string, period models.Period) ([]models.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker %s: %w", symbol, err)
	}
	defer t.Close()

	bars, err := t.History(yfmodels.HistoryParams{
		Period:     string(period),
		Interval:   "1d",
		AutoAdjust: true,
	})
	if err != nil {
		return nil, classify(symbol, err)
	}

	out := make([]models.Bar, 0, len(bars))
	for _, bar := range bars {
		d := bar.Date
		out = append(out, models.Bar{
			Date:     time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			AdjClose: bar.AdjClose,
			Volume:   int64(bar.Volume),
		})
	}
	return out, nil
}

// GetSustainability is not exposed by go-yfinance.
func (c *Client) GetSustainability(_ context.Context, symbol string) (*models.ESGScores, error) {
	return nil, fmt.Errorf("%s sustainability: %w", symbol, models.ErrNotSupported)
}

// GetNews is not exposed by go-yfinance.
func (c *Client) GetNews(_ context.Context, symbol string, _ int) ([]models.NewsItem, error) {
	return nil, fmt.Errorf("%s news: %w", symbol, models.ErrNotSupported)
}
