// Package analytics implements the financial formulas behind the dashboard:
// returns and volatility, valuation, risk, portfolio simulation, forecasting,
// recommendations and news sentiment.
package analytics

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/bobmcallan/argentis/internal/models"
)

// TradingDaysPerYear annualises daily statistics.
const TradingDaysPerYear = 252

// ErrInsufficientData is returned when a series is too short for a statistic.
var ErrInsufficientData = errors.New("insufficient data")

// PctChange returns simple returns between consecutive prices. Pairs whose
// previous price is zero are skipped.
func PctChange(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, prices[i]/prices[i-1]-1)
	}
	return returns
}

// AnnualizedReturn returns mean daily return * 252.
func AnnualizedReturn(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return stat.Mean(returns, nil) * TradingDaysPerYear
}

// AnnualizedVolatility returns the sample standard deviation * sqrt(252).
func AnnualizedVolatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear)
}

// Performance is the annualised return and volatility of one asset, in percent.
type Performance struct {
	Symbol        string  `json:"symbol"`
	ReturnPct     float64 `json:"return_pct"`
	VolatilityPct float64 `json:"volatility_pct"`
}

// ComputePerformance derives annualised return and volatility from daily bars.
func ComputePerformance(symbol string, bars []models.Bar) (Performance, error) {
	returns := PctChange(models.Closes(bars))
	if len(returns) < 2 {
		return Performance{Symbol: symbol}, ErrInsufficientData
	}
	return Performance{
		Symbol:        symbol,
		ReturnPct:     AnnualizedReturn(returns) * 100,
		VolatilityPct: AnnualizedVolatility(returns) * 100,
	}, nil
}

// Aligned holds closing prices for several symbols on the dates they all share.
type Aligned struct {
	Symbols []string
	Dates   []time.Time
	Closes  [][]float64 // Closes[i] is the series for Symbols[i]
}

// AlignCloses keeps the dates present in every history, in ascending order.
// Symbols missing from histories are ignored.
func AlignCloses(symbols []string, histories map[string][]models.Bar) *Aligned {
	a := &Aligned{}
	byDate := make([]map[int64]float64, 0, len(symbols))
	for _, sym := range symbols {
		bars, ok := histories[sym]
		if !ok {
			continue
		}
		m := make(map[int64]float64, len(bars))
		for _, b := range bars {
			m[dayKey(b.Date)] = b.Close
		}
		a.Symbols = append(a.Symbols, sym)
		byDate = append(byDate, m)
	}
	if len(byDate) == 0 {
		return a
	}

	var days []int64
	for d := range byDate[0] {
		shared := true
		for _, m := range byDate[1:] {
			if _, ok := m[d]; !ok {
				shared = false
				break
			}
		}
		if shared {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	a.Closes = make([][]float64, len(a.Symbols))
	for i := range a.Symbols {
		a.Closes[i] = make([]float64, len(days))
	}
	for k, d := range days {
		a.Dates = append(a.Dates, time.Unix(d*86400, 0).UTC())
		for i, m := range byDate {
			a.Closes[i][k] = m[d]
		}
	}
	return a
}

// dayKey maps a timestamp to its UTC calendar day.
func dayKey(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// Returns converts aligned closes to aligned daily returns. Rows where any
// previous close is zero are dropped for every symbol.
func (a *Aligned) Returns() [][]float64 {
	out := make([][]float64, len(a.Symbols))
	if len(a.Dates) < 2 {
		return out
	}
	for k := 1; k < len(a.Dates); k++ {
		skip := false
		for i := range a.Symbols {
			if a.Closes[i][k-1] == 0 {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		for i := range a.Symbols {
			out[i] = append(out[i], a.Closes[i][k]/a.Closes[i][k-1]-1)
		}
	}
	return out
}
