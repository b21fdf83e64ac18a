package analytics

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Confidence bounds for VaR/CVaR, in percent.
const (
	MinConfidence     = 90
	MaxConfidence     = 99
	DefaultConfidence = 95
)

// Quantile returns the q-quantile of values using linear interpolation
// between the two nearest order statistics (position (n-1)*q).
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	h := float64(len(sorted)-1) * q
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[i]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// HistoricalVaR returns the one-day historical value at risk, a return
// quantile at alpha = (100 - confidence) / 100. Losses are negative.
func HistoricalVaR(returns []float64, confidence int) float64 {
	return Quantile(returns, alpha(confidence))
}

// HistoricalCVaR returns the mean of the returns at or below var1.
func HistoricalCVaR(returns []float64, var1 float64) float64 {
	var tail []float64
	for _, r := range returns {
		if r <= var1 {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		return var1
	}
	return stat.Mean(tail, nil)
}

func alpha(confidence int) float64 {
	return float64(100-confidence) / 100
}

// Horizons are the 1, 5 and 10 day figures scaled by the square root of time.
type Horizons struct {
	Day1  float64 `json:"day_1"`
	Day5  float64 `json:"day_5"`
	Day10 float64 `json:"day_10"`
}

func scaleHorizons(oneDay float64) Horizons {
	return Horizons{
		Day1:  oneDay * 100,
		Day5:  oneDay * math.Sqrt(5) * 100,
		Day10: oneDay * math.Sqrt(10) * 100,
	}
}

// TickerRisk holds VaR, CVaR (percent) and annualised volatility (percent) for one symbol.
type TickerRisk struct {
	Symbol        string   `json:"symbol"`
	VaR           Horizons `json:"var"`
	CVaR          Horizons `json:"cvar"`
	VolatilityPct float64  `json:"volatility_pct"`
}

// Scenario is a stress test applied to historical returns.
type Scenario string

const (
	ScenarioCrash      Scenario = "crash"
	ScenarioRally      Scenario = "rally"
	ScenarioVolatility Scenario = "volatility"
)

// Scenarios lists the stress tests in display order.
var Scenarios = []Scenario{ScenarioCrash, ScenarioRally, ScenarioVolatility}

// Label returns the French name of the scenario.
func (s Scenario) Label() string {
	switch s {
	case ScenarioCrash:
		return "Chute de marché (-10%)"
	case ScenarioRally:
		return "Hausse de marché (+10%)"
	case ScenarioVolatility:
		return "Volatilité élevée"
	default:
		return string(s)
	}
}

// ParseScenario validates a scenario name. Empty selects the crash scenario.
func ParseScenario(s string) (Scenario, error) {
	if s == "" {
		return ScenarioCrash, nil
	}
	for _, sc := range Scenarios {
		if Scenario(s) == sc {
			return sc, nil
		}
	}
	return "", fmt.Errorf("unknown scenario %q", s)
}

// RiskReport is the output of the risk page.
type RiskReport struct {
	Confidence   int          `json:"confidence"`
	Observations int          `json:"observations"`
	Tickers      []TickerRisk `json:"tickers"`
	Scenario     Scenario     `json:"scenario"`
	SimulatedVaR float64      `json:"simulated_var_pct"`
}

// AssessRisk computes per-symbol VaR/CVaR/volatility and the scenario VaR
// from aligned daily returns. returns[i] belongs to symbols[i].
func AssessRisk(symbols []string, returns [][]float64, confidence int, scenario Scenario, rng *rand.Rand) (*RiskReport, error) {
	if confidence < MinConfidence || confidence > MaxConfidence {
		return nil, fmt.Errorf("confidence %d outside %d..%d", confidence, MinConfidence, MaxConfidence)
	}
	if len(symbols) == 0 || len(returns) != len(symbols) {
		return nil, ErrInsufficientData
	}
	rows := len(returns[0])
	if rows < 2 {
		return nil, ErrInsufficientData
	}

	report := &RiskReport{Confidence: confidence, Observations: rows, Scenario: scenario}
	for i, sym := range symbols {
		var1 := HistoricalVaR(returns[i], confidence)
		report.Tickers = append(report.Tickers, TickerRisk{
			Symbol:        sym,
			VaR:           scaleHorizons(var1),
			CVaR:          scaleHorizons(HistoricalCVaR(returns[i], var1)),
			VolatilityPct: AnnualizedVolatility(returns[i]) * 100,
		})
	}

	simulated := ApplyScenario(returns, scenario, rng)
	var sum float64
	for _, r := range simulated {
		sum += Quantile(r, alpha(confidence))
	}
	report.SimulatedVaR = sum / float64(len(simulated)) * 100
	return report, nil
}

// ApplyScenario returns a stressed copy of aligned returns. Crash scales
// returns by 1.1 and rally by 0.9; volatility multiplies each row by a draw
// from N(1, 0.02).
func ApplyScenario(returns [][]float64, scenario Scenario, rng *rand.Rand) [][]float64 {
	out := make([][]float64, len(returns))
	for i := range returns {
		out[i] = make([]float64, len(returns[i]))
	}
	if len(returns) == 0 {
		return out
	}

	switch scenario {
	case ScenarioRally:
		scaleAll(returns, out, 0.9)
	case ScenarioVolatility:
		noise := distuv.Normal{Mu: 1, Sigma: 0.02, Src: ensureRand(rng)}
		for k := range returns[0] {
			m := noise.Rand()
			for i := range returns {
				out[i][k] = returns[i][k] * m
			}
		}
	default:
		scaleAll(returns, out, 1.1)
	}
	return out
}

func scaleAll(in, out [][]float64, factor float64) {
	for i := range in {
		for k, r := range in[i] {
			out[i][k] = r * factor
		}
	}
}
