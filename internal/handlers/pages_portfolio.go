package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/argentis/internal/analytics"
	"github.com/bobmcallan/argentis/internal/insights"
	"github.com/bobmcallan/argentis/internal/models"
)

// PortfolioRow is one line of the portfolio entry form.
type PortfolioRow struct {
	Index  int
	Symbol string
	Weight string
}

// PortfolioView is the portfolio page content.
type PortfolioView struct {
	Rows     []PortfolioRow
	TotalPct float64
	Result   *analytics.PortfolioResult
}

// ServePortfolio handles GET /portfolio with ticker_N and weight_N fields.
// The simulation runs only when the simulate field is present.
func (h *PageHandler) ServePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "portfolio", "📚 Gestion de Portefeuille")
	maxRows, _ := h.insights.Limits()
	view := &PortfolioView{}
	data.Result = view
	data.Options["max"] = maxRows

	q := r.URL.Query()
	var inputs []analytics.HoldingInput
	status := http.StatusOK
	for i := 1; i <= maxRows; i++ {
		row := PortfolioRow{
			Index:  i,
			Symbol: strings.TrimSpace(q.Get(fmt.Sprintf("ticker_%d", i))),
			Weight: strings.TrimSpace(q.Get(fmt.Sprintf("weight_%d", i))),
		}
		view.Rows = append(view.Rows, row)
		if row.Weight == "" {
			continue
		}
		pct, err := strconv.ParseFloat(row.Weight, 64)
		if err != nil || pct < 0 || pct > 100 {
			status = h.fail(data, &insights.UserError{
				Message: fmt.Sprintf("Poids invalide pour la ligne %d : %s.", i, row.Weight),
				Err:     insights.ErrInvalidInput,
			})
			continue
		}
		inputs = append(inputs, analytics.HoldingInput{Symbol: row.Symbol, WeightPct: pct})
	}

	if holdings, err := analytics.BuildHoldings(inputs); err == nil {
		total := analytics.TotalWeight(holdings)
		view.TotalPct = total * 100
		if analytics.WeightWarning(total) {
			data.Warnings = append(data.Warnings, insights.WeightWarningMessage)
		}
	}

	if q.Has("simulate") && data.Error == "" {
		result, err := h.insights.SimulatePortfolio(r.Context(), inputs, 0)
		if err != nil {
			status = h.fail(data, err)
		} else {
			view.Result = result
			if result.Optimal != nil {
				data.Charts["frontier"] = frontierChart(result.Optimal)
			}
		}
	}
	h.render(w, status, "portfolio.html", data)
}

// ServeRecommendations handles GET /recommendations?tickers=&sort=.
func (h *PageHandler) ServeRecommendations(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "recommendations", "⭐ Recommandations Automatiques")
	data.Options["sorts"] = analytics.SortKeys
	data.Options["sort"] = analytics.SortScore

	status := http.StatusOK
	if tickers := queryTickers(r); len(tickers) > 0 {
		sortKey := r.URL.Query().Get("sort")
		recs, err := h.insights.Recommend(r.Context(), tickers, sortKey)
		if err != nil {
			status = h.fail(data, err)
		} else {
			data.Result = recs
			data.Options["sort"] = recs.Sort
			data.Warnings = append(data.Warnings, recs.Warnings...)
			if len(recs.Items) > 0 {
				labels := make([]string, len(recs.Items))
				scores := make([]float64, len(recs.Items))
				for i, rec := range recs.Items {
					labels[i] = rec.Symbol
					scores[i] = float64(rec.Score)
				}
				c := barChart("Score de Recommandation", labels, scores, nil)
				c.YLabel = "Score de Recommandation"
				data.Charts["scores"] = c
			}
		}
	}
	h.render(w, status, "recommendations.html", data)
}

// ScenarioOption is a stress test entry of the risk page.
type ScenarioOption struct {
	Value string
	Label string
}

func scenarioOptions() []ScenarioOption {
	out := make([]ScenarioOption, len(analytics.Scenarios))
	for i, s := range analytics.Scenarios {
		out[i] = ScenarioOption{Value: string(s), Label: s.Label()}
	}
	return out
}

// ServeRisk handles GET /risk?tickers=&period=&confidence=&scenario=.
func (h *PageHandler) ServeRisk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "risk", "⚡ Gestion Avancée des Risques")
	q := r.URL.Query()
	data.Options["periods"] = riskPeriods
	data.Options["period"] = string(models.Period1Y)
	data.Options["scenarios"] = scenarioOptions()
	data.Options["scenario"] = string(analytics.ScenarioCrash)
	data.Options["confidence"] = analytics.DefaultConfidence
	data.Options["minConfidence"] = analytics.MinConfidence
	data.Options["maxConfidence"] = analytics.MaxConfidence

	status := http.StatusOK
	if tickers := queryTickers(r); len(tickers) > 0 {
		risk, err := h.riskFromQuery(r, tickers)
		if err != nil {
			status = h.fail(data, err)
		} else {
			data.Result = risk
			data.Options["period"] = string(risk.Period)
			data.Options["scenario"] = string(risk.Scenario)
			data.Options["confidence"] = risk.Confidence
			labels := make([]string, len(risk.Tickers))
			vols := make([]float64, len(risk.Tickers))
			for i, t := range risk.Tickers {
				labels[i] = t.Symbol
				vols[i] = t.VolatilityPct
			}
			c := barChart("Volatilité Annualisée (%)", labels, vols, nil)
			c.YLabel = "Volatilité Annualisée (%)"
			data.Charts["volatility"] = c
		}
	} else if q.Get("scenario") != "" {
		data.Options["scenario"] = q.Get("scenario")
	}
	h.render(w, status, "risk.html", data)
}

func (h *PageHandler) riskFromQuery(r *http.Request, tickers []string) (*insights.Risk, error) {
	period, err := queryPeriod(r, models.Period1Y)
	if err != nil {
		return nil, err
	}
	confidence, err := queryInt(r, "confidence")
	if err != nil {
		return nil, err
	}
	return h.insights.AssessRisk(r.Context(), insights.RiskRequest{
		Symbols:    tickers,
		Period:     period,
		Confidence: confidence,
		Scenario:   analytics.Scenario(r.URL.Query().Get("scenario")),
	})
}

// ServeOptimize handles GET /optimize?tickers=&period=&simulations=.
func (h *PageHandler) ServeOptimize(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "optimize", "📊 Optimisation de Portefeuille")
	data.Options["periods"] = optimizePeriods
	data.Options["period"] = string(models.Period1Y)
	data.Options["simulations"] = analytics.DefaultSimulations
	data.Options["minSimulations"] = analytics.MinSimulations
	data.Options["maxSimulations"] = analytics.MaxSimulations

	status := http.StatusOK
	if tickers := queryTickers(r); len(tickers) > 0 {
		opt, err := h.optimizeFromQuery(r, tickers)
		if err != nil {
			status = h.fail(data, err)
		} else {
			data.Result = opt
			data.Options["period"] = string(opt.Period)
			data.Options["simulations"] = opt.Simulations
			data.Charts["frontier"] = frontierChart(opt.Optimization)
			data.Charts["weights"] = weightsChart(opt.Symbols, opt.Weights)
		}
	}
	h.render(w, status, "optimize.html", data)
}

func (h *PageHandler) optimizeFromQuery(r *http.Request, tickers []string) (*insights.Optimization, error) {
	period, err := queryPeriod(r, models.Period1Y)
	if err != nil {
		return nil, err
	}
	sims, err := queryInt(r, "simulations")
	if err != nil {
		return nil, err
	}
	return h.insights.Optimize(r.Context(), insights.OptimizeRequest{
		Symbols:     tickers,
		Period:      period,
		Simulations: sims,
	})
}

// Widgets selects the dashboard card sections.
type Widgets struct {
	Price  bool
	Chart  bool
	Ratios bool
	News   bool
}

// DashboardView is the custom dashboard content.
type DashboardView struct {
	Widgets Widgets
	Cards   []DashboardCardView
}

// DashboardCardView is a dashboard card with its chart id.
type DashboardCardView struct {
	insights.DashboardCard
	ChartID string
}

// ServeDashboard handles GET /dashboard. Widget checkboxes default to on until
// the form is submitted.
func (h *PageHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "dashboard", "🎨 Dashboard Personnalisé")
	q := r.URL.Query()
	view := &DashboardView{Widgets: Widgets{Price: true, Chart: true, Ratios: true, News: true}}
	if q.Has("widgets") {
		view.Widgets = Widgets{
			Price:  q.Has("price"),
			Chart:  q.Has("chart"),
			Ratios: q.Has("ratios"),
			News:   q.Has("news"),
		}
	}
	data.Result = view

	status := http.StatusOK
	if tickers := queryTickers(r); len(tickers) > 0 {
		cards, err := h.insights.Dashboard(r.Context(), tickers)
		if err != nil {
			status = h.fail(data, err)
		}
		for i, card := range cards {
			cv := DashboardCardView{DashboardCard: card, ChartID: fmt.Sprintf("card-%d", i)}
			if view.Widgets.Chart && len(card.History) > 0 {
				data.Charts[cv.ChartID] = priceChart(card.Symbol, card.History, nil)
			}
			view.Cards = append(view.Cards, cv)
		}
	}
	h.render(w, status, "dashboard.html", data)
}

// ServeTracking handles GET /tracking?tickers=. Without tickers the last
// tracked list is prefilled.
func (h *PageHandler) ServeTracking(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "tracking", "⏱️ Suivi Temps Réel du Portefeuille")
	_, maxTracking := h.insights.Limits()
	data.Options["max"] = maxTracking
	data.Options["tickers"] = r.URL.Query().Get("tickers")

	status := http.StatusOK
	tickers := queryTickers(r)
	if len(tickers) == 0 {
		data.Options["tickers"] = h.insights.LastTracked(r.Context())
	} else {
		tracking, err := h.insights.Track(r.Context(), tickers)
		if err != nil {
			status = h.fail(data, err)
		} else {
			data.Result = tracking
			data.Warnings = append(data.Warnings, tracking.Warnings...)
		}
	}
	h.render(w, status, "tracking.html", data)
}

// ServeExport handles GET /export?tickers= and links to the CSV and PDF downloads.
func (h *PageHandler) ServeExport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "export", "📄 Export & Reporting")

	status := http.StatusOK
	if tickers := queryTickers(r); len(tickers) > 0 {
		rep, err := h.insights.Report(r.Context(), tickers)
		if err != nil {
			status = h.fail(data, err)
		} else {
			data.Result = rep
			data.Warnings = append(data.Warnings, rep.Warnings...)
			data.Options["tickers"] = strings.Join(tickers, ",")
		}
	}
	h.render(w, status, "export.html", data)
}
