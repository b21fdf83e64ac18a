package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/argentis/internal/models"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func barsFrom(start int, closes ...float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Date: day(start + i), Close: c}
	}
	return bars
}

func TestPctChange(t *testing.T) {
	got := PctChange([]float64{100, 110, 99})
	require.Len(t, got, 2)
	assert.InDelta(t, 0.1, got[0], 1e-12)
	assert.InDelta(t, -0.1, got[1], 1e-12)

	assert.Nil(t, PctChange([]float64{100}))
	assert.Len(t, PctChange([]float64{0, 5, 10}), 1, "pairs with a zero previous price are skipped")
}

func TestAnnualizedReturnAndVolatility(t *testing.T) {
	returns := []float64{0.01, 0.03}
	assert.InDelta(t, 5.04, AnnualizedReturn(returns), 1e-9)
	assert.InDelta(t, math.Sqrt(0.0002)*math.Sqrt(252), AnnualizedVolatility(returns), 1e-9)

	assert.Equal(t, 0.0, AnnualizedReturn(nil))
	assert.Equal(t, 0.0, AnnualizedVolatility([]float64{0.01}))
}

func TestComputePerformance(t *testing.T) {
	perf, err := ComputePerformance("AAPL", barsFrom(2, 100, 101, 103))
	require.NoError(t, err)
	assert.Equal(t, "AAPL", perf.Symbol)
	assert.Greater(t, perf.ReturnPct, 0.0)
	assert.Greater(t, perf.VolatilityPct, 0.0)

	_, err = ComputePerformance("AAPL", barsFrom(2, 100, 101))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAlignCloses(t *testing.T) {
	histories := map[string][]models.Bar{
		"AAPL": barsFrom(2, 10, 11, 12, 13),
		"MSFT": barsFrom(3, 20, 21, 22, 23),
	}
	a := AlignCloses([]string{"AAPL", "MSFT", "ZZZZ"}, histories)

	assert.Equal(t, []string{"AAPL", "MSFT"}, a.Symbols)
	require.Len(t, a.Dates, 3)
	assert.True(t, a.Dates[0].Equal(day(3)))
	assert.True(t, a.Dates[2].Equal(day(5)))
	assert.Equal(t, []float64{11, 12, 13}, a.Closes[0])
	assert.Equal(t, []float64{20, 21, 22}, a.Closes[1])

	returns := a.Returns()
	require.Len(t, returns, 2)
	assert.Len(t, returns[0], 2)
	assert.InDelta(t, 0.05, returns[1][0], 1e-12)
}

func TestAlignCloses_IgnoresIntradayTime(t *testing.T) {
	morning := []models.Bar{
		{Date: time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC), Close: 1},
		{Date: time.Date(2025, 6, 3, 13, 30, 0, 0, time.UTC), Close: 2},
	}
	a := AlignCloses([]string{"A", "B"}, map[string][]models.Bar{"A": morning, "B": barsFrom(2, 5, 6)})
	assert.Len(t, a.Dates, 2)
}

func TestAlignCloses_Empty(t *testing.T) {
	a := AlignCloses([]string{"AAPL"}, nil)
	assert.Empty(t, a.Symbols)
	assert.Empty(t, a.Returns())
}
