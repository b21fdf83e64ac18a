package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bobmcallan/argentis/internal/analytics"
	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/insights"
	"github.com/bobmcallan/argentis/internal/models"
	"github.com/bobmcallan/argentis/internal/report"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// APIHandler serves the JSON API over the insights service.
type APIHandler struct {
	logger   *common.Logger
	insights *insights.Service
	reports  *report.Service
	validate *validator.Validate
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(logger *common.Logger, svc *insights.Service, reports *report.Service) *APIHandler {
	return &APIHandler{
		logger:   logger,
		insights: svc,
		reports:  reports,
		validate: validator.New(),
	}
}

func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusFor(err) >= http.StatusInternalServerError && h.logger != nil {
		h.logger.Error().Str("path", r.URL.Path).Err(err).Msg("API request failed")
	}
	writeFailure(w, err)
}

// pathSymbol returns the path segment after prefix.
func pathSymbol(r *http.Request, prefix string) string {
	return strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
}

// GetTicker handles GET /api/ticker/{symbol}?period=.
func (h *APIHandler) GetTicker(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r, models.Period1Y)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	summary, err := h.insights.TickerSummary(r.Context(), pathSymbol(r, "/api/ticker/"), period)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// RefreshTicker handles DELETE /api/ticker/{symbol}, dropping cached data.
func (h *APIHandler) RefreshTicker(w http.ResponseWriter, r *http.Request) {
	symbol := models.NormalizeSymbol(pathSymbol(r, "/api/ticker/"))
	if err := h.insights.Refresh(r.Context(), symbol); err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "symbol": symbol})
}

// HistoryResponse is the price history of one ticker.
type HistoryResponse struct {
	Symbol string        `json:"symbol"`
	Period models.Period `json:"period"`
	Bars   []models.Bar  `json:"bars"`
}

// GetHistory handles GET /api/history/{symbol}?period=.
func (h *APIHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	period, err := queryPeriod(r, models.Period1Y)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	summary, err := h.insights.TickerSummary(r.Context(), pathSymbol(r, "/api/history/"), period)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, HistoryResponse{Symbol: summary.Symbol, Period: period, Bars: summary.History})
}

// GetValuation handles GET /api/valuation/{symbol}.
func (h *APIHandler) GetValuation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	eval, err := h.insights.Evaluate(r.Context(), pathSymbol(r, "/api/valuation/"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, eval)
}

// GetCompare handles GET /api/compare?tickers=A,B or ?a=A&b=B.
func (h *APIHandler) GetCompare(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	first, second := q.Get("a"), q.Get("b")
	if tickers := queryTickers(r); len(tickers) > 0 {
		if len(tickers) != 2 {
			WriteError(w, http.StatusBadRequest, "Veuillez saisir exactement deux actifs.")
			return
		}
		first, second = tickers[0], tickers[1]
	}
	period, err := queryPeriod(r, models.Period1Y)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cmp, err := h.insights.Compare(r.Context(), first, second, period)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, cmp)
}

// SimulateRequest is the body of POST /api/portfolio/simulate.
type SimulateRequest struct {
	Holdings    []HoldingRequest `json:"holdings" validate:"required,min=1,max=10,dive"`
	Simulations int              `json:"simulations" validate:"omitempty,min=1000,max=10000"`
}

// HoldingRequest is one portfolio line with its weight in percent.
type HoldingRequest struct {
	Symbol    string  `json:"symbol" validate:"required,max=16"`
	WeightPct float64 `json:"weight_pct" validate:"gt=0,lte=100"`
}

// SimulateResponse wraps the simulation with the weight warning.
type SimulateResponse struct {
	*analytics.PortfolioResult
	Warning string `json:"warning,omitempty"`
}

// SimulatePortfolio handles POST /api/portfolio/simulate.
func (h *APIHandler) SimulatePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req SimulateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Corps de requête JSON invalide.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	rows := make([]analytics.HoldingInput, len(req.Holdings))
	for i, hr := range req.Holdings {
		rows[i] = analytics.HoldingInput{Symbol: hr.Symbol, WeightPct: hr.WeightPct}
	}
	result, err := h.insights.SimulatePortfolio(r.Context(), rows, req.Simulations)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := SimulateResponse{PortfolioResult: result}
	if result.WeightWarning {
		resp.Warning = insights.WeightWarningMessage
	}
	WriteJSON(w, http.StatusOK, resp)
}

// validationMessage lists the failing fields of a validator error.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Requête invalide."
	}
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag())
	}
	return "Requête invalide : " + strings.Join(fields, ", ")
}

// GetForecast handles GET /api/forecast/{symbol}?days=.
func (h *APIHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	days, err := queryInt(r, "days")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	fc, err := h.insights.Forecast(r.Context(), pathSymbol(r, "/api/forecast/"), analytics.ClampForecastDays(days))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, fc)
}

// GetSentiment handles GET /api/sentiment/{symbol}.
func (h *APIHandler) GetSentiment(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	s, err := h.insights.Sentiment(r.Context(), pathSymbol(r, "/api/sentiment/"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, s)
}

// GetESG handles GET /api/esg/{symbol}.
func (h *APIHandler) GetESG(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	esg, err := h.insights.Sustainability(r.Context(), pathSymbol(r, "/api/esg/"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, esg)
}

// GetRecommendations handles GET /api/recommendations?tickers=&sort=.
func (h *APIHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	recs, err := h.insights.Recommend(r.Context(), queryTickers(r), r.URL.Query().Get("sort"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, recs)
}

// GetRisk handles GET /api/risk?tickers=&period=&confidence=&scenario=.
func (h *APIHandler) GetRisk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	period, err := queryPeriod(r, models.Period1Y)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	confidence, err := queryInt(r, "confidence")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	risk, err := h.insights.AssessRisk(r.Context(), insights.RiskRequest{
		Symbols:    queryTickers(r),
		Period:     period,
		Confidence: confidence,
		Scenario:   analytics.Scenario(r.URL.Query().Get("scenario")),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, risk)
}

// GetOptimize handles GET /api/optimize?tickers=&period=&simulations=.
func (h *APIHandler) GetOptimize(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	period, err := queryPeriod(r, models.Period1Y)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sims, err := queryInt(r, "simulations")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	opt, err := h.insights.Optimize(r.Context(), insights.OptimizeRequest{
		Symbols:     queryTickers(r),
		Period:      period,
		Simulations: sims,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, opt)
}

// GetDashboard handles GET /api/dashboard?tickers=.
func (h *APIHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cards, err := h.insights.Dashboard(r.Context(), queryTickers(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

// GetTracking handles GET /api/tracking?tickers=.
func (h *APIHandler) GetTracking(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	tracking, err := h.insights.Track(r.Context(), queryTickers(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, tracking)
}

// ExportCSV handles GET /api/export.csv?tickers=.
func (h *APIHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	rep, ok := h.exportRows(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rep.Rows); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.CSVFilename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ExportPDF handles GET /api/export.pdf?tickers=.
func (h *APIHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	rep, ok := h.exportRows(w, r)
	if !ok {
		return
	}
	pdf, err := h.reports.RenderPDF(rep.Rows, time.Now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.PDFFilename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// exportRows builds the report rows; a report without rows is a 422.
func (h *APIHandler) exportRows(w http.ResponseWriter, r *http.Request) (*insights.Report, bool) {
	rep, err := h.insights.Report(r.Context(), queryTickers(r))
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if len(rep.Rows) == 0 {
		WriteError(w, http.StatusUnprocessableEntity, "Aucune donnée disponible pour générer un rapport.")
		return nil, false
	}
	return rep, true
}
