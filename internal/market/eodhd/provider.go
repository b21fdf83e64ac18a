package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/bobmcallan/argentis/internal/models"
)

func (c *Client) fundamentals(ctx context.Context, symbol string) (*fundamentalsResponse, error) {
	var result fundamentalsResponse
	if err := c.get(ctx, "/fundamentals/"+c.qualify(symbol), nil, &result); err != nil {
		return nil, err
	}
	if result.General == nil || result.General.Code == "" {
		return nil, fmt.Errorf("%s: %w", symbol, models.ErrTickerNotFound)
	}
	return &result, nil
}

// GetInfo maps the fundamentals sections onto models.Info.
func (c *Client) GetInfo(ctx context.Context, symbol string) (*models.Info, error) {
	f, err := c.fundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}

	info := &models.Info{
		Symbol:    symbol,
		LongName:  f.General.Name,
		ShortName: f.General.Code,
		Currency:  f.General.CurrencyCode,
		Exchange:  f.General.Exchange,
		Sector:    f.General.Sector,
		Industry:  f.General.Industry,
		Country:   f.General.CountryName,
	}
	if h := f.Highlights; h != nil {
		info.MarketCap = h.MarketCapitalization
		info.TrailingPE = h.PERatio
		info.DividendYield = h.DividendYield
		info.ProfitMargins = h.ProfitMargin
		info.OperatingMargins = h.OperatingMarginTTM
		info.ReturnOnAssets = h.ReturnOnAssetsTTM
		info.ReturnOnEquity = h.ReturnOnEquityTTM
		info.RevenueGrowth = h.QuarterlyRevenueGrowthYOY
		info.EarningsGrowth = h.QuarterlyEarningsGrowthYOY
		if h.GrossProfitTTM != nil && h.RevenueTTM != nil && *h.RevenueTTM != 0 {
			gm := *h.GrossProfitTTM / *h.RevenueTTM
			info.GrossMargins = &gm
		}
	}
	if v := f.Valuation; v != nil {
		if v.TrailingPE != nil {
			info.TrailingPE = v.TrailingPE
		}
		info.ForwardPE = v.ForwardPE
		info.PriceToBook = v.PriceBookMRQ
	}
	if t := f.Technicals; t != nil {
		info.Beta = t.Beta
		info.FiftyTwoWeekHigh = t.FiftyTwoWeekHigh
		info.FiftyTwoWeekLow = t.FiftyTwoWeekLow
	}
	return info, nil
}

// GetSustainability returns the ESG section of the fundamentals, or nil when absent.
func (c *Client) GetSustainability(ctx context.Context, symbol string) (*models.ESGScores, error) {
	f, err := c.fundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}
	e := f.ESGScores
	if e == nil {
		return nil, nil
	}
	scores := &models.ESGScores{
		TotalESG:           e.TotalEsg,
		EnvironmentScore:   e.EnvironmentScore,
		SocialScore:        e.SocialScore,
		GovernanceScore:    e.GovernanceScore,
		HighestControversy: e.ControversyLevel,
	}
	if len(e.RatingDate) >= 4 {
		scores.RatingYear, _ = strconv.Atoi(e.RatingDate[:4])
	}
	if scores.Empty() {
		return nil, nil
	}
	return scores, nil
}

// GetHistory fetches daily bars from the period start to today, oldest first.
func (c *Client) GetHistory(ctx context.Context, symbol string, period models.Period) ([]models.Bar, error) {
	now := c.now().UTC()
	params := url.Values{}
	params.Set("from", period.Start(now).Format("2006-01-02"))
	params.Set("to", now.Format("2006-01-02"))
	params.Set("period", "d")
	params.Set("order", "a")

	var result []eodData
	if err := c.get(ctx, "/eod/"+c.qualify(symbol), params, &result); err != nil {
		return nil, err
	}

	bars := make([]models.Bar, 0, len(result))
	for _, r := range result {
		t, err := time.Parse("2006-01-02", r.DateStr)
		if err != nil {
			continue
		}
		bars = append(bars, models.Bar{
			Date:     t,
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			AdjClose: r.AdjustedClose,
			Volume:   r.Volume,
		})
	}
	return bars, nil
}

// GetNews fetches up to limit articles tagged with the symbol.
func (c *Client) GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("s", c.qualify(symbol))
	params.Set("limit", strconv.Itoa(limit))

	var result []newsItem
	if err := c.get(ctx, "/news", params, &result); err != nil {
		return nil, err
	}

	items := make([]models.NewsItem, 0, len(result))
	for _, n := range result {
		item := models.NewsItem{Title: n.Title, Publisher: "EODHD", Link: n.Link}
		if t, err := time.Parse("2006-01-02 15:04:05", n.DateStr); err == nil {
			item.Published = t
		} else if t, err := time.Parse("2006-01-02T15:04:05-07:00", n.DateStr); err == nil {
			item.Published = t.UTC()
		}
		items = append(items, item)
	}
	return items, nil
}
