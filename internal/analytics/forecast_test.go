package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/argentis/internal/models"
)

func calendarBars(n int, price func(i int) float64) []models.Bar {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{Date: start.AddDate(0, 0, i), Close: price(i)}
	}
	return bars
}

func weekdayBars(n int, price func(i int) float64) []models.Bar {
	d := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday
	var bars []models.Bar
	for len(bars) < n {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			bars = append(bars, models.Bar{Date: d, Close: price(len(bars))})
		}
		d = d.AddDate(0, 0, 1)
	}
	return bars
}

func TestARIMAForecast_Recursion(t *testing.T) {
	m := &ARIMAModel{Phi: 0.5, Theta: 0.2, lastLevel: 100, lastDiff: 2, lastResid: 1}
	got := m.Forecast(3)

	// d1 = 0.5*2 + 0.2*1 = 1.2, d2 = 0.6, d3 = 0.3
	require.Len(t, got, 3)
	assert.InDelta(t, 101.2, got[0], 1e-12)
	assert.InDelta(t, 101.8, got[1], 1e-12)
	assert.InDelta(t, 102.1, got[2], 1e-12)
}

func TestFitARIMA(t *testing.T) {
	prices := make([]float64, 200)
	prices[0] = 100
	prev := 0.0
	for i := 1; i < len(prices); i++ {
		// deterministic oscillating increments
		d := 0.6*prev + math.Sin(float64(i)*1.7)
		prices[i] = prices[i-1] + d
		prev = d
	}

	m, err := FitARIMA(prices)
	require.NoError(t, err)
	assert.Less(t, math.Abs(m.Phi), 1.0)
	assert.Less(t, math.Abs(m.Theta), 1.0)
	assert.Greater(t, m.Sigma, 0.0)

	for _, v := range m.Forecast(7) {
		assert.False(t, math.IsNaN(v))
	}
}

func TestFitARIMA_TooShort(t *testing.T) {
	_, err := FitARIMA([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFitTrend_LinearSeries(t *testing.T) {
	bars := calendarBars(60, func(i int) float64 { return 50 + 0.5*float64(i) })
	m, err := FitTrend(bars)
	require.NoError(t, err)

	yhat, lower, upper := m.Predict(bars[59].Date.AddDate(0, 0, 1))
	assert.InDelta(t, 80, yhat, 1e-6)
	assert.InDelta(t, yhat, lower, 1e-6)
	assert.InDelta(t, yhat, upper, 1e-6)
}

func TestFitTrend_WeeklyPattern(t *testing.T) {
	bars := weekdayBars(80, func(i int) float64 {
		return 100 + 0.1*float64(i) + 2*math.Sin(float64(i%5)) + 0.3*math.Sin(float64(i)*0.37)
	})
	m, err := FitTrend(bars)
	require.NoError(t, err)

	yhat, lower, upper := m.Predict(bars[len(bars)-1].Date.AddDate(0, 0, 1))
	assert.Less(t, lower, yhat)
	assert.Greater(t, upper, yhat)
	assert.InDelta(t, intervalZ*m.Sigma, upper-yhat, 1e-9)
}

func TestForecastPrices(t *testing.T) {
	bars := weekdayBars(120, func(i int) float64 { return 100 + 0.2*float64(i) + math.Sin(float64(i)) })
	report, err := ForecastPrices("AAPL", bars, 7)
	require.NoError(t, err)

	assert.Equal(t, 7, report.Days)
	require.Len(t, report.Points, 7)
	last := bars[len(bars)-1].Date
	for i, p := range report.Points {
		assert.True(t, p.Date.Equal(last.AddDate(0, 0, i+1)), "forecast dates are consecutive calendar days")
		require.NotNil(t, p.ARIMA)
		require.NotNil(t, p.Trend)
		assert.LessOrEqual(t, *p.Lower, *p.Trend)
		assert.GreaterOrEqual(t, *p.Upper, *p.Trend)
	}
	assert.Equal(t, report.Points[6].ARIMA, report.ARIMALast)
	assert.Equal(t, report.Points[6].Trend, report.TrendLast)
	assert.Empty(t, report.ARIMAError)
	assert.Empty(t, report.TrendError)
}

func TestForecastPrices_ShortHistory(t *testing.T) {
	bars := calendarBars(4, func(i int) float64 { return float64(i + 1) })
	report, err := ForecastPrices("NEWCO", bars, 3)
	assert.Error(t, err)
	require.NotNil(t, report)
	assert.NotEmpty(t, report.ARIMAError)
	assert.NotEmpty(t, report.TrendError)

	_, err = ForecastPrices("NEWCO", bars[:1], 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestClampForecastDays(t *testing.T) {
	assert.Equal(t, DefaultForecastDays, ClampForecastDays(0))
	assert.Equal(t, MinForecastDays, ClampForecastDays(-3))
	assert.Equal(t, MaxForecastDays, ClampForecastDays(90))
	assert.Equal(t, 14, ClampForecastDays(14))
}
