package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/bobmcallan/argentis/internal/models"
)

// Forecast horizon bounds, in calendar days.
const (
	MinForecastDays     = 1
	MaxForecastDays     = 30
	DefaultForecastDays = 7
)

// intervalZ is the two-sided 80% normal quantile.
const intervalZ = 1.2815515655446004

// minForecastBars is the shortest history either model accepts.
const minForecastBars = 10

// ARIMAModel is a fitted ARIMA(1,1,1) without constant.
type ARIMAModel struct {
	Phi   float64
	Theta float64
	Sigma float64

	lastLevel float64
	lastDiff  float64
	lastResid float64
}

// FitARIMA fits ARIMA(1,1,1) to prices by conditional sum of squares,
// keeping both coefficients inside (-1, 1).
func FitARIMA(prices []float64) (*ARIMAModel, error) {
	if len(prices) < minForecastBars {
		return nil, fmt.Errorf("arima: %d prices: %w", len(prices), ErrInsufficientData)
	}
	diffs := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		diffs[i-1] = prices[i] - prices[i-1]
	}

	sse := func(x []float64) float64 {
		phi, theta := math.Tanh(x[0]), math.Tanh(x[1])
		_, sum := cssResiduals(diffs, phi, theta)
		return sum
	}

	problem := optimize.Problem{Func: sse}
	result, err := optimize.Minimize(problem, []float64{0, 0}, &optimize.Settings{}, &optimize.NelderMead{})
	if err != nil && result == nil {
		return nil, fmt.Errorf("arima: %w", err)
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return nil, errors.New("arima: fit did not converge")
	}

	m := &ARIMAModel{Phi: math.Tanh(result.X[0]), Theta: math.Tanh(result.X[1])}
	resid, sum := cssResiduals(diffs, m.Phi, m.Theta)
	if n := len(resid) - 1; n > 0 {
		m.Sigma = math.Sqrt(sum / float64(n))
	}
	m.lastLevel = prices[len(prices)-1]
	m.lastDiff = diffs[len(diffs)-1]
	m.lastResid = resid[len(resid)-1]
	return m, nil
}

// cssResiduals computes e_t = d_t - phi*d_{t-1} - theta*e_{t-1} with e_0 = 0
// and returns the residuals with their sum of squares from t = 1.
func cssResiduals(diffs []float64, phi, theta float64) ([]float64, float64) {
	resid := make([]float64, len(diffs))
	var sum float64
	for t := 1; t < len(diffs); t++ {
		resid[t] = diffs[t] - phi*diffs[t-1] - theta*resid[t-1]
		sum += resid[t] * resid[t]
	}
	return resid, sum
}

// Forecast returns the next steps price levels.
func (m *ARIMAModel) Forecast(steps int) []float64 {
	out := make([]float64, steps)
	level := m.lastLevel
	diff := m.Phi*m.lastDiff + m.Theta*m.lastResid
	for h := 0; h < steps; h++ {
		if h > 0 {
			diff = m.Phi * diff
		}
		level += diff
		out[h] = level
	}
	return out
}

// TrendModel is an additive linear trend plus weekly Fourier seasonality,
// fitted by least squares on calendar time.
type TrendModel struct {
	origin time.Time
	span   float64
	coef   []float64
	order  int
	Sigma  float64
}

// weeklyOrder is the number of weekly Fourier pairs.
const weeklyOrder = 2

// FitTrend fits the trend and weekly seasonality model to daily bars.
// When the seasonal design is singular the model falls back to trend only.
func FitTrend(bars []models.Bar) (*TrendModel, error) {
	if len(bars) < minForecastBars {
		return nil, fmt.Errorf("trend: %d bars: %w", len(bars), ErrInsufficientData)
	}

	m := &TrendModel{origin: bars[0].Date, order: weeklyOrder}
	m.span = bars[len(bars)-1].Date.Sub(m.origin).Hours() / 24
	if m.span <= 0 {
		return nil, fmt.Errorf("trend: history spans no time: %w", ErrInsufficientData)
	}

	y := mat.NewVecDense(len(bars), models.Closes(bars))
	for _, order := range []int{weeklyOrder, 0} {
		m.order = order
		x := mat.NewDense(len(bars), m.width(), nil)
		for i, b := range bars {
			x.SetRow(i, m.features(b.Date))
		}

		var beta mat.VecDense
		if err := beta.SolveVec(x, y); err != nil {
			continue
		}
		m.coef = beta.RawVector().Data

		var fitted mat.VecDense
		fitted.MulVec(x, &beta)
		resid := make([]float64, len(bars))
		for i := range resid {
			resid[i] = y.AtVec(i) - fitted.AtVec(i)
		}
		m.Sigma = stat.StdDev(resid, nil)
		return m, nil
	}
	return nil, errors.New("trend: least squares failed")
}

func (m *TrendModel) width() int {
	return 2 + 2*m.order
}

func (m *TrendModel) features(d time.Time) []float64 {
	days := d.Sub(m.origin).Hours() / 24
	row := make([]float64, m.width())
	row[0] = 1
	row[1] = days / m.span
	for k := 1; k <= m.order; k++ {
		angle := 2 * math.Pi * float64(k) * days / 7
		row[2*k] = math.Sin(angle)
		row[2*k+1] = math.Cos(angle)
	}
	return row
}

// Predict returns the fitted value and its 80% interval at date d.
func (m *TrendModel) Predict(d time.Time) (yhat, lower, upper float64) {
	row := m.features(d)
	for i, c := range m.coef {
		yhat += c * row[i]
	}
	band := intervalZ * m.Sigma
	return yhat, yhat - band, yhat + band
}

// ForecastPoint is one forecast day. Nil fields mean the model failed.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	ARIMA *float64  `json:"arima"`
	Trend *float64  `json:"trend"`
	Lower *float64  `json:"trend_lower"`
	Upper *float64  `json:"trend_upper"`
}

// ForecastReport holds both model outputs for the forecast page.
type ForecastReport struct {
	Symbol     string          `json:"symbol"`
	Days       int             `json:"days"`
	LastClose  float64         `json:"last_close"`
	LastDate   time.Time       `json:"last_date"`
	Points     []ForecastPoint `json:"points"`
	ARIMALast  *float64        `json:"arima_last"`
	TrendLast  *float64        `json:"trend_last"`
	ARIMAError string          `json:"arima_error,omitempty"`
	TrendError string          `json:"trend_error,omitempty"`
}

// ClampForecastDays bounds a requested horizon to 1..30, defaulting to 7.
func ClampForecastDays(days int) int {
	switch {
	case days == 0:
		return DefaultForecastDays
	case days < MinForecastDays:
		return MinForecastDays
	case days > MaxForecastDays:
		return MaxForecastDays
	default:
		return days
	}
}

// ForecastPrices runs both models over bars for the given number of calendar
// days after the last bar. A failing model is reported in its error field.
func ForecastPrices(symbol string, bars []models.Bar, days int) (*ForecastReport, error) {
	if !models.ValidHistory(bars) {
		return nil, ErrInsufficientData
	}
	days = ClampForecastDays(days)
	lastBar := bars[len(bars)-1]

	report := &ForecastReport{
		Symbol:    symbol,
		Days:      days,
		LastClose: lastBar.Close,
		LastDate:  lastBar.Date,
		Points:    make([]ForecastPoint, days),
	}
	for i := range report.Points {
		report.Points[i].Date = lastBar.Date.AddDate(0, 0, i+1)
	}

	if am, err := FitARIMA(models.Closes(bars)); err != nil {
		report.ARIMAError = err.Error()
	} else {
		for i, v := range am.Forecast(days) {
			report.Points[i].ARIMA = ptr(v)
		}
		report.ARIMALast = report.Points[days-1].ARIMA
	}

	if tm, err := FitTrend(bars); err != nil {
		report.TrendError = err.Error()
	} else {
		for i := range report.Points {
			yhat, lo, hi := tm.Predict(report.Points[i].Date)
			report.Points[i].Trend = ptr(yhat)
			report.Points[i].Lower = ptr(lo)
			report.Points[i].Upper = ptr(hi)
		}
		report.TrendLast = report.Points[days-1].Trend
	}

	if report.ARIMAError != "" && report.TrendError != "" {
		return report, fmt.Errorf("both forecasts failed: %s; %s", report.ARIMAError, report.TrendError)
	}
	return report, nil
}

func ptr(v float64) *float64 {
	return &v
}
