package handlers

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/argentis/internal/analytics"
	"github.com/bobmcallan/argentis/internal/insights"
	"github.com/bobmcallan/argentis/internal/models"
)

// HomeView is the home page content.
type HomeView struct {
	Headlines []analytics.Headline
	Top       []analytics.Performer
	Bottom    []analytics.Performer
	Periods   []Option
	Period    string
	Summary   *insights.TickerSummary
}

// ServeHome handles GET / with an optional ticker search.
func (h *PageHandler) ServeHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	data := h.newPage(r, "home", "🏠 Accueil")
	top, bottom := analytics.TopBottomPerformers()
	view := &HomeView{
		Headlines: analytics.MarketHeadlines(),
		Top:       top,
		Bottom:    bottom,
		Periods:   chartPeriods,
		Period:    string(models.Period1Y),
	}
	data.Result = view

	status := http.StatusOK
	if ticker := strings.TrimSpace(r.URL.Query().Get("ticker")); ticker != "" {
		period, err := queryPeriod(r, models.Period1Y)
		if err == nil {
			view.Period = string(period)
			view.Summary, err = h.insights.TickerSummary(r.Context(), ticker, period)
		}
		if err != nil {
			status = h.fail(data, err)
		} else {
			data.Charts["price"] = priceChart(view.Summary.Symbol, view.Summary.History, view.Summary.Indicators)
			data.Charts["rsi"] = rsiChart(view.Summary.History, view.Summary.Indicators)
		}
	}
	h.render(w, status, "home.html", data)
}

// ServeEvaluation handles GET /evaluation.
func (h *PageHandler) ServeEvaluation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "evaluation", "📈 Évaluation d'un Actif")

	status := http.StatusOK
	if ticker := strings.TrimSpace(r.URL.Query().Get("ticker")); ticker != "" {
		eval, err := h.insights.Evaluate(r.Context(), ticker)
		if err != nil {
			status = h.fail(data, err)
		} else {
			data.Result = eval
			data.Charts["history"] = priceChart(eval.Symbol, eval.History, nil)
		}
	}
	h.render(w, status, "evaluation.html", data)
}

// CompareView is the comparison page content.
type CompareView struct {
	Periods    []Option
	Period     string
	Comparison *insights.Comparison
}

// ServeCompare handles GET /compare?c1=&c2=&period=.
func (h *PageHandler) ServeCompare(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "compare", "🔎 Comparateur d'Actifs")
	view := &CompareView{Periods: chartPeriods, Period: string(models.Period1Y)}
	data.Result = view

	q := r.URL.Query()
	c1, c2 := strings.TrimSpace(q.Get("c1")), strings.TrimSpace(q.Get("c2"))
	status := http.StatusOK
	switch {
	case c1 == "" && c2 == "":
		data.Notice = "Veuillez saisir les deux actifs pour lancer la comparaison."
	default:
		period, err := queryPeriod(r, models.Period1Y)
		if err == nil {
			view.Period = string(period)
			view.Comparison, err = h.insights.Compare(r.Context(), c1, c2, period)
		}
		if err != nil {
			status = h.fail(data, err)
		} else {
			data.Charts["history"] = compareChart(view.Comparison.Chart)
		}
	}
	h.render(w, status, "compare.html", data)
}

// ServeForecast handles GET /forecast?ticker=&days=.
func (h *PageHandler) ServeForecast(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "forecast", "🤖 Prévisions Machine Learning")
	data.Options["days"] = analytics.DefaultForecastDays

	status := http.StatusOK
	if ticker := strings.TrimSpace(r.URL.Query().Get("ticker")); ticker != "" {
		days, err := queryInt(r, "days")
		var fc *insights.Forecast
		if err == nil {
			days = analytics.ClampForecastDays(days)
			data.Options["days"] = days
			fc, err = h.insights.Forecast(r.Context(), ticker, days)
		}
		if err != nil {
			status = h.fail(data, err)
		} else {
			data.Result = fc
			data.Charts["forecast"] = forecastChart(fc.History, fc.ForecastReport)
		}
	}
	h.render(w, status, "forecast.html", data)
}

// ServeSentiment handles GET /sentiment?ticker=.
func (h *PageHandler) ServeSentiment(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "sentiment", "📰 Sentiment & NLP")

	status := http.StatusOK
	if ticker := strings.TrimSpace(r.URL.Query().Get("ticker")); ticker != "" {
		s, err := h.insights.Sentiment(r.Context(), ticker)
		if err != nil {
			status = h.fail(data, err)
		} else {
			data.Result = s
			data.Notice = s.Notice
			data.Charts["distribution"] = sentimentChart(s.Distribution)
		}
	}
	h.render(w, status, "sentiment.html", data)
}

// ServeESG handles GET /esg?ticker=.
func (h *PageHandler) ServeESG(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "esg", "🌿 ESG & Durabilité")

	status := http.StatusOK
	if ticker := strings.TrimSpace(r.URL.Query().Get("ticker")); ticker != "" {
		esg, err := h.insights.Sustainability(r.Context(), ticker)
		if err != nil {
			status = h.fail(data, err)
		} else {
			data.Result = esg
		}
	}
	h.render(w, status, "esg.html", data)
}
