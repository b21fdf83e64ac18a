package analytics

import (
	"errors"
	"fmt"
	"math"

	"github.com/bobmcallan/argentis/internal/models"
)

// ValuationParams holds the fixed assumptions of the simplified WACC and DCF models.
type ValuationParams struct {
	CostOfEquity float64
	CostOfDebt   float64
	TaxRate      float64
	GrowthRate   float64
	DiscountRate float64
	Years        int
}

// DefaultValuationParams returns the assumptions shown on the evaluation page.
func DefaultValuationParams() ValuationParams {
	return ValuationParams{
		CostOfEquity: 0.08,
		CostOfDebt:   0.04,
		TaxRate:      0.21,
		GrowthRate:   0.02,
		DiscountRate: 0.08,
		Years:        5,
	}
}

// ErrInvalidRates is returned when the discount rate does not exceed the growth rate.
var ErrInvalidRates = errors.New("discount rate must exceed growth rate")

// WACC returns the weighted average cost of capital in percent.
// Missing debt counts as zero and a missing market cap as one.
func WACC(info *models.Info, p ValuationParams) (float64, error) {
	if info == nil {
		return 0, fmt.Errorf("wacc: %w", ErrInsufficientData)
	}
	debt := valueOr(info.TotalDebt, 0)
	marketCap := valueOr(info.MarketCap, 1)
	total := debt + marketCap

	var debtWeight, equityWeight float64
	if total > 0 {
		debtWeight = debt / total
		equityWeight = marketCap / total
	}

	wacc := equityWeight*p.CostOfEquity + debtWeight*p.CostOfDebt*(1-p.TaxRate)
	return wacc * 100, nil
}

// DCF returns the discounted cash flow value in millions. The operating cash
// flow is grown at GrowthRate and discounted at DiscountRate for Years, plus a
// Gordon terminal value discounted from the final year. Missing cash flow counts as zero.
func DCF(info *models.Info, p ValuationParams) (float64, error) {
	if info == nil {
		return 0, fmt.Errorf("dcf: %w", ErrInsufficientData)
	}
	if p.DiscountRate <= p.GrowthRate {
		return 0, ErrInvalidRates
	}
	if p.Years < 1 {
		return 0, fmt.Errorf("dcf: years must be positive, got %d", p.Years)
	}

	cashFlow := valueOr(info.OperatingCashflow, 0)
	g, r, n := p.GrowthRate, p.DiscountRate, p.Years

	var value float64
	for i := 1; i <= n; i++ {
		value += cashFlow * math.Pow(1+g, float64(i)) / math.Pow(1+r, float64(i))
	}
	terminal := cashFlow * math.Pow(1+g, float64(n+1)) / (r - g)
	value += terminal / math.Pow(1+r, float64(n))

	return value / 1e6, nil
}

// Valuation bundles the evaluation page figures for one ticker.
type Valuation struct {
	Symbol  string   `json:"symbol"`
	WACCPct *float64 `json:"wacc_pct"`
	DCFM    *float64 `json:"dcf_millions"`
	Ratios  []Ratio  `json:"ratios"`
}

// Evaluate computes WACC, DCF and ratios. Formulas that fail leave their field nil.
func Evaluate(data *models.TickerData, p ValuationParams) Valuation {
	v := Valuation{Symbol: data.Symbol, Ratios: Ratios(data.Info)}
	if w, err := WACC(data.Info, p); err == nil {
		v.WACCPct = &w
	}
	if d, err := DCF(data.Info, p); err == nil {
		v.DCFM = &d
	}
	return v
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return fallback
	}
	return *v
}
