package analytics

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/bobmcallan/argentis/internal/models"
)

// Simulation bounds.
const (
	MaxHoldings        = 10
	MinSimulations     = 1000
	MaxSimulations     = 10000
	DefaultSimulations = 5000
)

// Holding is one portfolio line. Weight is a fraction of the portfolio.
type Holding struct {
	Symbol string  `json:"symbol" validate:"required,max=16"`
	Weight float64 `json:"weight" validate:"gte=0,lte=1"`
}

// HoldingInput is a raw form row with the weight in percent.
type HoldingInput struct {
	Symbol    string
	WeightPct float64
}

// BuildHoldings keeps rows with a symbol and a positive weight. A repeated
// symbol keeps its last weight and its first position.
func BuildHoldings(rows []HoldingInput) ([]Holding, error) {
	var holdings []Holding
	index := make(map[string]int)
	for _, r := range rows {
		sym := models.NormalizeSymbol(r.Symbol)
		if sym == "" || r.WeightPct <= 0 {
			continue
		}
		if r.WeightPct > 100 {
			return nil, fmt.Errorf("weight for %s exceeds 100%%", sym)
		}
		if i, ok := index[sym]; ok {
			holdings[i].Weight = r.WeightPct / 100
			continue
		}
		index[sym] = len(holdings)
		holdings = append(holdings, Holding{Symbol: sym, Weight: r.WeightPct / 100})
	}
	if len(holdings) > MaxHoldings {
		return nil, fmt.Errorf("at most %d holdings, got %d", MaxHoldings, len(holdings))
	}
	return holdings, nil
}

// TotalWeight sums holding weights.
func TotalWeight(holdings []Holding) float64 {
	var total float64
	for _, h := range holdings {
		total += h.Weight
	}
	return total
}

// WeightWarning reports a non-empty portfolio whose weights fall outside 95%..105%.
// It is advisory only.
func WeightWarning(total float64) bool {
	return total > 0 && (total < 0.95 || total > 1.05)
}

// Moments are the daily mean returns and covariance of aligned return series.
type Moments struct {
	Mean []float64
	Cov  *mat.SymDense
}

// ComputeMoments builds mean returns and the sample covariance matrix.
// returns[i] is the series of asset i; all series share a length.
func ComputeMoments(returns [][]float64) (*Moments, error) {
	n := len(returns)
	if n == 0 || len(returns[0]) < 2 {
		return nil, ErrInsufficientData
	}
	rows := len(returns[0])
	data := mat.NewDense(rows, n, nil)
	mean := make([]float64, n)
	for j, series := range returns {
		if len(series) != rows {
			return nil, fmt.Errorf("series %d has %d returns, expected %d", j, len(series), rows)
		}
		data.SetCol(j, series)
		mean[j] = stat.Mean(series, nil)
	}

	cov := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(cov, data, nil)
	return &Moments{Mean: mean, Cov: cov}, nil
}

// Performance returns the annualised return and volatility (fractions) for weights.
func (m *Moments) Performance(weights []float64) (ret, vol float64) {
	ret = floats.Dot(m.Mean, weights) * TradingDaysPerYear
	w := mat.NewVecDense(len(weights), weights)
	variance := mat.Inner(w, m.Cov, w) * TradingDaysPerYear
	return ret, math.Sqrt(math.Max(variance, 0))
}

// FrontierPoint is one random portfolio, in percent except Sharpe.
type FrontierPoint struct {
	VolatilityPct float64 `json:"volatility_pct"`
	ReturnPct     float64 `json:"return_pct"`
	Sharpe        float64 `json:"sharpe"`
}

// Optimization is the best random portfolio by return over volatility.
type Optimization struct {
	Symbols       []string        `json:"symbols"`
	Weights       []float64       `json:"weights"`
	ReturnPct     float64         `json:"return_pct"`
	VolatilityPct float64         `json:"volatility_pct"`
	Sharpe        float64         `json:"sharpe"`
	Simulations   int             `json:"simulations"`
	Points        []FrontierPoint `json:"points,omitempty"`
}

// ClampSimulations bounds a requested simulation count to 1000..10000.
func ClampSimulations(n int) int {
	switch {
	case n <= 0:
		return DefaultSimulations
	case n < MinSimulations:
		return MinSimulations
	case n > MaxSimulations:
		return MaxSimulations
	default:
		return n
	}
}

// Optimize draws sims weight vectors from a flat Dirichlet distribution and
// keeps the one maximising return / volatility. No risk-free rate is applied.
func Optimize(symbols []string, m *Moments, sims int, rng *rand.Rand) (*Optimization, error) {
	n := len(symbols)
	if n == 0 || len(m.Mean) != n {
		return nil, ErrInsufficientData
	}
	if sims < 1 {
		sims = DefaultSimulations
	}

	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	dirichlet := distmv.NewDirichlet(ones, ensureRand(rng))

	opt := &Optimization{Symbols: symbols, Simulations: sims, Sharpe: math.Inf(-1)}
	opt.Points = make([]FrontierPoint, 0, sims)
	w := make([]float64, n)
	for i := 0; i < sims; i++ {
		dirichlet.Rand(w)
		ret, vol := m.Performance(w)
		sharpe := 0.0
		if vol > 0 {
			sharpe = ret / vol
		}
		opt.Points = append(opt.Points, FrontierPoint{VolatilityPct: vol * 100, ReturnPct: ret * 100, Sharpe: sharpe})
		if sharpe > opt.Sharpe {
			opt.Sharpe = sharpe
			opt.Weights = append(opt.Weights[:0], w...)
			opt.ReturnPct = ret * 100
			opt.VolatilityPct = vol * 100
		}
	}
	return opt, nil
}

// PortfolioResult is the output of the portfolio simulation.
type PortfolioResult struct {
	Holdings      []Holding     `json:"holdings"`
	TotalWeight   float64       `json:"total_weight"`
	WeightWarning bool          `json:"weight_warning"`
	ReturnPct     float64       `json:"return_pct"`
	VolatilityPct float64       `json:"volatility_pct"`
	Optimal       *Optimization `json:"optimal"`
}

// SimulatePortfolio evaluates the entered weights and runs the embedded optimisation.
// returns[i] must align with holdings[i].
func SimulatePortfolio(holdings []Holding, returns [][]float64, sims int, rng *rand.Rand) (*PortfolioResult, error) {
	if len(holdings) == 0 {
		return nil, fmt.Errorf("portfolio is empty")
	}
	m, err := ComputeMoments(returns)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, len(holdings))
	weights := make([]float64, len(holdings))
	for i, h := range holdings {
		symbols[i] = h.Symbol
		weights[i] = h.Weight
	}

	ret, vol := m.Performance(weights)
	opt, err := Optimize(symbols, m, sims, rng)
	if err != nil {
		return nil, err
	}

	total := TotalWeight(holdings)
	return &PortfolioResult{
		Holdings:      holdings,
		TotalWeight:   total,
		WeightWarning: WeightWarning(total),
		ReturnPct:     ret * 100,
		VolatilityPct: vol * 100,
		Optimal:       opt,
	}, nil
}
