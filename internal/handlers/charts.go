package handlers

import (
	"math"

	"github.com/bobmcallan/argentis/internal/analytics"
	"github.com/bobmcallan/argentis/internal/models"
)

// Chart colours from the dashboard palette.
const (
	colorBlue   = "#1a75ff"
	colorGreen  = "#28a745"
	colorOrange = "#ff9900"
	colorRed    = "#dc3545"
	colorYellow = "#ffc107"
	colorNavy   = "#003366"
)

var palette = []string{colorBlue, colorGreen, colorOrange, colorRed, colorNavy, "#6f42c1", "#17a2b8", "#e83e8c", "#20c997", "#6c757d"}

// Chart is the JSON description consumed by pages/static/js/charts.js.
type Chart struct {
	Type     string         `json:"type"`
	Labels   []string       `json:"labels,omitempty"`
	Datasets []ChartDataset `json:"datasets"`
	XLabel   string         `json:"x_label,omitempty"`
	YLabel   string         `json:"y_label,omitempty"`
}

// ChartDataset is one series. Data holds nil for gaps.
type ChartDataset struct {
	Label  string       `json:"label"`
	Data   []*float64   `json:"data,omitempty"`
	Points []ChartPoint `json:"points,omitempty"`
	Color  string       `json:"color,omitempty"`
	Colors []string     `json:"colors,omitempty"`
	Dashed bool         `json:"dashed,omitempty"`
	Fill   string       `json:"fill,omitempty"`
	Radius float64      `json:"radius,omitempty"`
}

// ChartPoint is a scatter point.
type ChartPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func dateLabels(bars []models.Bar) []string {
	out := make([]string, len(bars))
	for i, b := range bars {
		out[i] = b.Date.Format("2006-01-02")
	}
	return out
}

func series(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = &values[i]
	}
	return out
}

// priceChart plots closes with the moving averages when ind is set.
func priceChart(symbol string, bars []models.Bar, ind *analytics.Indicators) *Chart {
	if len(bars) == 0 {
		return nil
	}
	c := &Chart{
		Type:   "line",
		Labels: dateLabels(bars),
		Datasets: []ChartDataset{
			{Label: symbol, Data: series(models.Closes(bars)), Color: colorBlue},
		},
		YLabel: "Prix de Clôture ($)",
	}
	if ind != nil && len(ind.SMA20) == len(bars) {
		c.Datasets = append(c.Datasets,
			ChartDataset{Label: "SMA 20", Data: series(ind.SMA20), Color: colorOrange, Dashed: true},
			ChartDataset{Label: "SMA 50", Data: series(ind.SMA50), Color: colorGreen, Dashed: true},
		)
	}
	return c
}

// rsiChart plots RSI(14) on a 0..100 scale.
func rsiChart(bars []models.Bar, ind *analytics.Indicators) *Chart {
	if ind == nil || ind.RSI == nil || len(ind.RSI14) != len(bars) {
		return nil
	}
	return &Chart{
		Type:     "line",
		Labels:   dateLabels(bars),
		Datasets: []ChartDataset{{Label: "RSI 14", Data: series(ind.RSI14), Color: colorNavy}},
	}
}

// compareChart plots aligned closes of several symbols.
func compareChart(a *analytics.Aligned) *Chart {
	if a == nil || len(a.Dates) < 2 {
		return nil
	}
	c := &Chart{Type: "line", YLabel: "Prix de Clôture ($)"}
	for _, d := range a.Dates {
		c.Labels = append(c.Labels, d.Format("2006-01-02"))
	}
	for i, sym := range a.Symbols {
		c.Datasets = append(c.Datasets, ChartDataset{Label: sym, Data: series(a.Closes[i]), Color: palette[i%len(palette)]})
	}
	return c
}

// forecastChart plots history followed by both forecasts and the trend interval.
func forecastChart(history []models.Bar, report *analytics.ForecastReport) *Chart {
	n, m := len(history), len(report.Points)
	c := &Chart{Type: "line", Labels: dateLabels(history), XLabel: "Date", YLabel: "Prix de Clôture ($)"}
	hist := make([]*float64, n+m)
	arima := make([]*float64, n+m)
	trend := make([]*float64, n+m)
	lower := make([]*float64, n+m)
	upper := make([]*float64, n+m)
	for i, b := range history {
		v := b.Close
		hist[i] = &v
	}
	for i, p := range report.Points {
		c.Labels = append(c.Labels, p.Date.Format("2006-01-02"))
		arima[n+i] = p.ARIMA
		trend[n+i] = p.Trend
		lower[n+i] = p.Lower
		upper[n+i] = p.Upper
	}
	c.Datasets = []ChartDataset{
		{Label: "Historique", Data: hist, Color: colorBlue},
		{Label: "Prévision ARIMA", Data: arima, Color: colorGreen, Dashed: true},
		{Label: "Prévision Tendance", Data: trend, Color: colorOrange, Dashed: true},
		{Label: "Borne basse", Data: lower, Color: colorOrange},
		{Label: "Intervalle de Confiance (80%)", Data: upper, Color: colorOrange, Fill: "-1"},
	}
	return c
}

// barChart plots one value per label.
func barChart(label string, labels []string, values []float64, colors []string) *Chart {
	return &Chart{
		Type:     "bar",
		Labels:   labels,
		Datasets: []ChartDataset{{Label: label, Data: series(values), Colors: colors, Color: colorBlue}},
	}
}

// frontierChart plots random portfolios and marks the optimum.
func frontierChart(opt *analytics.Optimization) *Chart {
	points := make([]ChartPoint, len(opt.Points))
	for i, p := range opt.Points {
		points[i] = ChartPoint{X: p.VolatilityPct, Y: p.ReturnPct}
	}
	return &Chart{
		Type: "scatter",
		Datasets: []ChartDataset{
			{Label: "Portefeuille Optimal", Points: []ChartPoint{{X: opt.VolatilityPct, Y: opt.ReturnPct}}, Color: colorRed, Radius: 7},
			{Label: "Portefeuilles simulés", Points: points, Color: colorBlue, Radius: 2},
		},
		XLabel: "Volatilité Annualisée (%)",
		YLabel: "Rendement Annualisé (%)",
	}
}

// weightsChart plots optimal weights as a pie.
func weightsChart(symbols []string, weights []float64) *Chart {
	pct := make([]float64, len(weights))
	colors := make([]string, len(weights))
	for i, w := range weights {
		pct[i] = w * 100
		colors[i] = palette[i%len(palette)]
	}
	return &Chart{
		Type:     "pie",
		Labels:   symbols,
		Datasets: []ChartDataset{{Label: "Poids (%)", Data: series(pct), Colors: colors}},
	}
}

// sentimentChart plots the distribution in Positif, Neutre, Négatif order.
func sentimentChart(dist map[string]int) *Chart {
	values := make([]float64, len(analytics.SentimentLabels))
	for i, l := range analytics.SentimentLabels {
		values[i] = float64(dist[l])
	}
	return barChart("Nombre d'actualités", analytics.SentimentLabels, values, []string{colorGreen, colorYellow, colorRed})
}
