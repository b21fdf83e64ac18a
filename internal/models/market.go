package models

import (
	"fmt"
	"strings"
	"time"
)

// Bar is one daily OHLCV row.
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   int64     `json:"volume"`
}

// Info holds the descriptive fields and fundamentals of a ticker.
// Metrics are nil when the provider did not report them.
type Info struct {
	Symbol    string `json:"symbol"`
	LongName  string `json:"long_name,omitempty"`
	ShortName string `json:"short_name,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Exchange  string `json:"exchange,omitempty"`
	Sector    string `json:"sector,omitempty"`
	Industry  string `json:"industry,omitempty"`
	Country   string `json:"country,omitempty"`

	CurrentPrice     *float64 `json:"current_price,omitempty"`
	PreviousClose    *float64 `json:"previous_close,omitempty"`
	Bid              *float64 `json:"bid,omitempty"`
	Ask              *float64 `json:"ask,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	MarketCap        *float64 `json:"market_cap,omitempty"`

	TrailingPE    *float64 `json:"trailing_pe,omitempty"`
	ForwardPE     *float64 `json:"forward_pe,omitempty"`
	PriceToBook   *float64 `json:"price_to_book,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`

	ReturnOnEquity   *float64 `json:"return_on_equity,omitempty"`
	ReturnOnAssets   *float64 `json:"return_on_assets,omitempty"`
	DebtToEquity     *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio     *float64 `json:"current_ratio,omitempty"`
	QuickRatio       *float64 `json:"quick_ratio,omitempty"`
	GrossMargins     *float64 `json:"gross_margins,omitempty"`
	ProfitMargins    *float64 `json:"profit_margins,omitempty"`
	OperatingMargins *float64 `json:"operating_margins,omitempty"`
	RevenueGrowth    *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth   *float64 `json:"earnings_growth,omitempty"`

	TotalDebt         *float64 `json:"total_debt,omitempty"`
	OperatingCashflow *float64 `json:"operating_cashflow,omitempty"`
	FreeCashflow      *float64 `json:"free_cashflow,omitempty"`
}

// DisplayName returns the long name, the short name or the symbol, whichever is set first.
func (i *Info) DisplayName() string {
	switch {
	case i == nil:
		return ""
	case i.LongName != "":
		return i.LongName
	case i.ShortName != "":
		return i.ShortName
	default:
		return i.Symbol
	}
}

// ESGScores holds the sustainability scores of a ticker.
type ESGScores struct {
	TotalESG           *float64 `json:"total_esg,omitempty"`
	EnvironmentScore   *float64 `json:"environment_score,omitempty"`
	SocialScore        *float64 `json:"social_score,omitempty"`
	GovernanceScore    *float64 `json:"governance_score,omitempty"`
	HighestControversy *float64 `json:"highest_controversy,omitempty"`
	Percentile         *float64 `json:"percentile,omitempty"`
	PeerGroup          string   `json:"peer_group,omitempty"`
	RatingYear         int      `json:"rating_year,omitempty"`
}

// Empty reports whether no score is present.
func (e *ESGScores) Empty() bool {
	return e == nil || (e.TotalESG == nil && e.EnvironmentScore == nil && e.SocialScore == nil &&
		e.GovernanceScore == nil && e.HighestControversy == nil && e.Percentile == nil)
}

// NewsItem is one headline about a ticker.
type NewsItem struct {
	Title     string    `json:"title"`
	Publisher string    `json:"publisher,omitempty"`
	Link      string    `json:"link,omitempty"`
	Published time.Time `json:"published,omitempty"`
}

// TickerData is the per-ticker bundle fetched once and shared by every page.
type TickerData struct {
	Symbol         string     `json:"symbol"`
	Info           *Info      `json:"info"`
	History        []Bar      `json:"history,omitempty"`
	Sustainability *ESGScores `json:"sustainability,omitempty"`
	News           []NewsItem `json:"news,omitempty"`
	FetchedAt      time.Time  `json:"fetched_at"`
}

// LastClose returns the close of the most recent bar.
func (d *TickerData) LastClose() (float64, bool) {
	if d == nil || len(d.History) == 0 {
		return 0, false
	}
	return d.History[len(d.History)-1].Close, true
}

// ValidHistory reports whether bars are usable for analysis: at least two rows.
func ValidHistory(bars []Bar) bool {
	return len(bars) >= 2
}

// Closes extracts the close column.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseSymbols splits a comma separated ticker list, dropping empty entries and duplicates.
func ParseSymbols(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(s, ",") {
		sym := NormalizeSymbol(part)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

// Period is a history lookback window.
type Period string

const (
	Period1D Period = "1d"
	Period5D Period = "5d"
	Period1M Period = "1mo"
	Period3M Period = "3mo"
	Period6M Period = "6mo"
	Period1Y Period = "1y"
	Period2Y Period = "2y"
	Period5Y Period = "5y"
)

// Periods lists every supported period, shortest first.
var Periods = []Period{Period1D, Period5D, Period1M, Period3M, Period6M, Period1Y, Period2Y, Period5Y}

// ParsePeriod validates a period string. Empty input returns fallback.
func ParsePeriod(s string, fallback Period) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return fallback, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported period %q", s)
}

// Start returns the first date covered by the period when it ends at end.
func (p Period) Start(end time.Time) time.Time {
	switch p {
	case Period1D:
		return end.AddDate(0, 0, -1)
	case Period5D:
		return end.AddDate(0, 0, -5)
	case Period1M:
		return end.AddDate(0, -1, 0)
	case Period3M:
		return end.AddDate(0, -3, 0)
	case Period6M:
		return end.AddDate(0, -6, 0)
	case Period1Y:
		return end.AddDate(-1, 0, 0)
	case Period2Y:
		return end.AddDate(-2, 0, 0)
	default:
		return end.AddDate(-5, 0, 0)
	}
}

// Trim keeps the bars falling inside the period, measured back from the last bar.
// The start date is inclusive; 1d keeps only the last bar.
func (p Period) Trim(bars []Bar) []Bar {
	if len(bars) == 0 {
		return bars
	}
	if p == Period1D {
		return bars[len(bars)-1:]
	}
	start := p.Start(bars[len(bars)-1].Date)
	i := 0
	for i < len(bars) && bars[i].Date.Before(start) {
		i++
	}
	return bars[i:]
}
