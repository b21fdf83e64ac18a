package analytics

import (
	"math"

	"github.com/markcheno/go-talib"
)

// Indicator periods shown on the home chart.
const (
	ShortSMAPeriod = 20
	LongSMAPeriod  = 50
	RSIPeriod      = 14
)

// Indicators holds moving averages and RSI aligned with the input closes.
// Warm-up positions are NaN in the series and the latest values are nil
// when there is not enough data.
type Indicators struct {
	SMA20  []float64 `json:"-"`
	SMA50  []float64 `json:"-"`
	RSI14  []float64 `json:"-"`
	Last20 *float64  `json:"sma_20"`
	Last50 *float64  `json:"sma_50"`
	RSI    *float64  `json:"rsi_14"`
}

// ComputeIndicators calculates SMA(20), SMA(50) and RSI(14) over closes.
func ComputeIndicators(closes []float64) *Indicators {
	ind := &Indicators{
		SMA20: movingAverage(closes, ShortSMAPeriod),
		SMA50: movingAverage(closes, LongSMAPeriod),
		RSI14: nanSeries(len(closes)),
	}
	if len(closes) > RSIPeriod {
		ind.RSI14 = warmup(talib.Rsi(closes, RSIPeriod), RSIPeriod)
	}
	ind.Last20 = last(ind.SMA20)
	ind.Last50 = last(ind.SMA50)
	ind.RSI = last(ind.RSI14)
	return ind
}

func movingAverage(closes []float64, period int) []float64 {
	if len(closes) < period {
		return nanSeries(len(closes))
	}
	return warmup(talib.Sma(closes, period), period-1)
}

// warmup replaces the first n values, which talib leaves at zero, with NaN.
func warmup(series []float64, n int) []float64 {
	for i := 0; i < n && i < len(series); i++ {
		series[i] = math.NaN()
	}
	return series
}

func nanSeries(n int) []float64 {
	return warmup(make([]float64, n), n)
}

func last(series []float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	v := series[len(series)-1]
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
