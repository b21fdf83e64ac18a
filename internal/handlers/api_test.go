package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/report"
)

func newTestAPIHandler(t *testing.T) (*APIHandler, *fakeMarket, *memoryPrefs) {
	t.Helper()
	svc, market, prefs := newTestInsights()
	logger := common.NewSilentLogger()
	return NewAPIHandler(logger, svc, report.NewService(logger.ILogger)), market, prefs
}

func doAPI(t *testing.T, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestAPI_GetTicker(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.GetTicker, "GET", "/api/ticker/aapl?period=1mo", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["symbol"] != "AAPL" {
		t.Errorf("expected symbol AAPL, got %v", body["symbol"])
	}
	if body["name"] != "Apple Inc." {
		t.Errorf("expected name Apple Inc., got %v", body["name"])
	}
	if body["period"] != "1mo" {
		t.Errorf("expected period 1mo, got %v", body["period"])
	}
}

func TestAPI_GetTicker_NotFound(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.GetTicker, "GET", "/api/ticker/ZZZZ", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "error" {
		t.Errorf("expected status error, got %v", body["status"])
	}
	if !strings.Contains(body["error"].(string), "ZZZZ") {
		t.Errorf("expected error to name the ticker, got %v", body["error"])
	}
}

func TestAPI_RefreshTicker(t *testing.T) {
	h, market, _ := newTestAPIHandler(t)

	w := doAPI(t, h.RefreshTicker, "DELETE", "/api/ticker/msft", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if len(market.invalidated) != 1 || market.invalidated[0] != "MSFT" {
		t.Errorf("expected MSFT to be invalidated, got %v", market.invalidated)
	}

	w = doAPI(t, h.RefreshTicker, "DELETE", "/api/ticker/", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 without symbol, got %d", w.Code)
	}
}

func TestAPI_GetHistory(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.GetHistory, "GET", "/api/history/AAPL?period=1mo", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp HistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(resp.Bars) == 0 || len(resp.Bars) > 25 {
		t.Errorf("expected about a month of bars, got %d", len(resp.Bars))
	}
}

func TestAPI_GetValuation(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.GetValuation, "GET", "/api/valuation/AAPL", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if wacc, ok := body["wacc_pct"].(float64); !ok || wacc < 7.99 || wacc > 8.01 {
		t.Errorf("expected wacc_pct 8, got %v", body["wacc_pct"])
	}
	if ratios, ok := body["ratios"].([]any); !ok || len(ratios) != 9 {
		t.Errorf("expected 9 ratios, got %v", body["ratios"])
	}
}

func TestAPI_GetCompare(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.GetCompare, "GET", "/api/compare?tickers=AAPL,MSFT", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if perf, ok := body["performance"].([]any); !ok || len(perf) != 2 {
		t.Errorf("expected two performance entries, got %v", body["performance"])
	}

	w = doAPI(t, h.GetCompare, "GET", "/api/compare?a=AAPL&b=MSFT", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for a/b form, got %d", w.Code)
	}

	w = doAPI(t, h.GetCompare, "GET", "/api/compare?tickers=AAPL", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for one ticker, got %d", w.Code)
	}
}

func TestAPI_SimulatePortfolio(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.SimulatePortfolio, "POST", "/api/portfolio/simulate",
		`{"holdings":[{"symbol":"aapl","weight_pct":50},{"symbol":"MSFT","weight_pct":30}],"simulations":1000}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if holdings, ok := body["holdings"].([]any); !ok || len(holdings) != 2 {
		t.Errorf("expected 2 holdings, got %v", body["holdings"])
	}
	if body["warning"] == nil {
		t.Error("expected weight warning for an 80% portfolio")
	}
	optimal, ok := body["optimal"].(map[string]any)
	if !ok {
		t.Fatalf("expected optimal portfolio, got %v", body["optimal"])
	}
	if optimal["simulations"] != float64(1000) {
		t.Errorf("expected 1000 simulations, got %v", optimal["simulations"])
	}
}

func TestAPI_SimulatePortfolio_Invalid(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	tooMany := `{"holdings":[` + strings.Repeat(`{"symbol":"AAPL","weight_pct":5},`, 10) + `{"symbol":"MSFT","weight_pct":5}]}`

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"holdings":`},
		{"no holdings", `{"holdings":[]}`},
		{"weight above 100", `{"holdings":[{"symbol":"AAPL","weight_pct":150}]}`},
		{"missing symbol", `{"holdings":[{"weight_pct":50}]}`},
		{"too few simulations", `{"holdings":[{"symbol":"AAPL","weight_pct":100}],"simulations":10}`},
		{"too many holdings", tooMany},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAPI(t, h.SimulatePortfolio, "POST", "/api/portfolio/simulate", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestAPI_SimulatePortfolio_RejectsGET(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.SimulatePortfolio, "GET", "/api/portfolio/simulate", "")

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestAPI_GetForecast(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.GetForecast, "GET", "/api/forecast/AAPL?days=3", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["days"] != float64(3) {
		t.Errorf("expected days 3, got %v", body["days"])
	}

	w = doAPI(t, h.GetForecast, "GET", "/api/forecast/AAPL?days=x", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for bad days, got %d", w.Code)
	}
}

func TestAPI_GetSentimentAndESG(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.GetSentiment, "GET", "/api/sentiment/AAPL", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["simulated"] != false {
		t.Errorf("expected real headlines, got simulated=%v", body["simulated"])
	}

	w = doAPI(t, h.GetESG, "GET", "/api/esg/AAPL", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w = doAPI(t, h.GetESG, "GET", "/api/esg/MSFT", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", w.Code)
	}
}

func TestAPI_GetRecommendations(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.GetRecommendations, "GET", "/api/recommendations?tickers=MSFT,AAPL&sort=P/E", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var recs struct {
		Sort  string `json:"sort"`
		Items []struct {
			Symbol string `json:"symbol"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if recs.Sort != "P/E" {
		t.Errorf("expected sort P/E, got %s", recs.Sort)
	}
	if len(recs.Items) != 2 || recs.Items[0].Symbol != "MSFT" {
		t.Errorf("expected MSFT (higher P/E) first, got %+v", recs.Items)
	}
}

func TestAPI_GetRisk(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.GetRisk, "GET", "/api/risk?tickers=AAPL,MSFT&confidence=90&scenario=volatility", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["confidence"] != float64(90) {
		t.Errorf("expected confidence 90, got %v", body["confidence"])
	}
	if body["scenario_label"] != "Volatilité élevée" {
		t.Errorf("expected volatility label, got %v", body["scenario_label"])
	}
	if tickers, ok := body["tickers"].([]any); !ok || len(tickers) != 2 {
		t.Errorf("expected two tickers, got %v", body["tickers"])
	}
}

func TestAPI_GetOptimize(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.GetOptimize, "GET", "/api/optimize?tickers=AAPL,MSFT&simulations=2000&period=2y", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["simulations"] != float64(2000) {
		t.Errorf("expected 2000 simulations, got %v", body["simulations"])
	}
	weights, ok := body["weights"].([]any)
	if !ok || len(weights) != 2 {
		t.Fatalf("expected two weights, got %v", body["weights"])
	}
	sum := weights[0].(float64) + weights[1].(float64)
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("expected weights to sum to 1, got %f", sum)
	}
}

func TestAPI_GetOptimize_NoTickers(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.GetOptimize, "GET", "/api/optimize", "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestAPI_GetDashboardAndTracking(t *testing.T) {
	h, _, prefs := newTestAPIHandler(t)

	w := doAPI(t, h.GetDashboard, "GET", "/api/dashboard?tickers=AAPL,ZZZZ", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if cards, ok := body["cards"].([]any); !ok || len(cards) != 2 {
		t.Errorf("expected two cards, got %v", body["cards"])
	}

	w = doAPI(t, h.GetTracking, "GET", "/api/tracking?tickers=AAPL,MSFT,ZZZZ", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body = decodeBody(t, w)
	if quotes, ok := body["quotes"].([]any); !ok || len(quotes) != 2 {
		t.Errorf("expected two quotes, got %v", body["quotes"])
	}
	if prefs.values["prefs:tracking"] != "AAPL,MSFT,ZZZZ" {
		t.Errorf("expected tracked list to be saved, got %q", prefs.values["prefs:tracking"])
	}
}

func TestAPI_ExportCSV(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.ExportCSV, "GET", "/api/export.csv?tickers=AAPL,MSFT", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "rapport_investissement.csv") {
		t.Errorf("expected CSV filename in Content-Disposition, got %s", cd)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Ticker,Prix Actuel ($),P/E Ratio") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "AAPL,") {
		t.Errorf("expected AAPL first, got %s", lines[1])
	}
}

func TestAPI_ExportPDF(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.ExportPDF, "GET", "/api/export.pdf?tickers=AAPL", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF-") {
		t.Error("expected a PDF document")
	}
}

func TestAPI_Export_NoRows(t *testing.T) {
	h, _, _ := newTestAPIHandler(t)

	w := doAPI(t, h.ExportCSV, "GET", "/api/export.csv?tickers=NEWCO,ZZZZ", "")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", w.Code)
	}
}
