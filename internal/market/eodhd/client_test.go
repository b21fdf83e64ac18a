package eodhd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bobmcallan/argentis/internal/models"
)

const fundamentalsJSON = `{
  "General":{"Code":"AAPL","Name":"Apple Inc","Exchange":"NASDAQ","CurrencyCode":"USD","CountryName":"USA",
    "Sector":"Technology","Industry":"Consumer Electronics"},
  "Highlights":{"MarketCapitalization":2950000000000,"PERatio":29.1,"DividendYield":0.0051,"ProfitMargin":0.26,
    "OperatingMarginTTM":0.3,"ReturnOnAssetsTTM":0.22,"ReturnOnEquityTTM":1.47,"RevenueTTM":400,"GrossProfitTTM":180,
    "QuarterlyRevenueGrowthYOY":0.05,"QuarterlyEarningsGrowthYOY":null},
  "Valuation":{"TrailingPE":29.5,"ForwardPE":27.0,"PriceBookMRQ":48.3},
  "Technicals":{"Beta":1.29,"52WeekHigh":199.62,"52WeekLow":164.08},
  "ESGScores":{"ratingDate":"2024-06-01","totalEsg":17.2,"environmentScore":0.5,"socialScore":7.4,
    "governanceScore":9.3,"controversyLevel":3}
}`

const eodJSON = `[
  {"date":"2025-06-02","open":200,"high":202,"low":199,"close":201.5,"adjusted_close":201.2,"volume":1000},
  {"date":"2025-06-03","open":201,"high":204,"low":200,"close":203.1,"adjusted_close":202.8,"volume":1100}
]`

const newsJSON = `[
  {"date":"2025-06-03 14:00:00","title":"Apple shares gain on strong demand","content":"...","link":"https://example.com/1","symbols":["AAPL.US"],"tags":[]},
  {"date":"2025-06-02T09:30:00+00:00","title":"Supplier warns of weak quarter","link":"https://example.com/2"}
]`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/fundamentals/AAPL.US", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_token") != "demo" || r.URL.Query().Get("fmt") != "json" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(fundamentalsJSON))
	})
	mux.HandleFunc("/fundamentals/EMPTY.US", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/eod/AAPL.US", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("from") != "2024-06-04" || q.Get("to") != "2025-06-04" || q.Get("order") != "a" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(eodJSON))
	})
	mux.HandleFunc("/eod/BHP.AU", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/eod/FAIL.US", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})
	mux.HandleFunc("/news", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("s") != "AAPL.US" || r.URL.Query().Get("limit") != "5" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(newsJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient("demo", WithBaseURL(srv.URL), WithRateLimit(100))
	c.now = func() time.Time { return time.Date(2025, 6, 4, 15, 0, 0, 0, time.UTC) }
	return c
}

func TestQualify(t *testing.T) {
	c := NewClient("k", WithExchange("au"))
	if got := c.qualify("BHP"); got != "BHP.AU" {
		t.Errorf("expected BHP.AU, got %s", got)
	}
	if got := c.qualify("AAPL.US"); got != "AAPL.US" {
		t.Errorf("expected AAPL.US unchanged, got %s", got)
	}
}

func TestGetInfo(t *testing.T) {
	c := newTestClient(newTestServer(t))

	info, err := c.GetInfo(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	if info.LongName != "Apple Inc" {
		t.Errorf("expected Apple Inc, got %s", info.LongName)
	}
	if info.TrailingPE == nil || *info.TrailingPE != 29.5 {
		t.Errorf("expected valuation trailing PE 29.5, got %v", info.TrailingPE)
	}
	if info.GrossMargins == nil || *info.GrossMargins != 0.45 {
		t.Errorf("expected derived gross margin 0.45, got %v", info.GrossMargins)
	}
	if info.EarningsGrowth != nil {
		t.Errorf("expected nil earnings growth for null, got %v", *info.EarningsGrowth)
	}
	if info.FiftyTwoWeekHigh == nil || *info.FiftyTwoWeekHigh != 199.62 {
		t.Errorf("expected 52w high 199.62, got %v", info.FiftyTwoWeekHigh)
	}
}

func TestGetInfo_EmptyGeneralIsNotFound(t *testing.T) {
	c := newTestClient(newTestServer(t))

	_, err := c.GetInfo(context.Background(), "EMPTY")
	if !errors.Is(err, models.ErrTickerNotFound) {
		t.Errorf("expected ErrTickerNotFound, got %v", err)
	}
}

func TestGetInfo_UnknownRouteIsNotFound(t *testing.T) {
	c := newTestClient(newTestServer(t))

	_, err := c.GetInfo(context.Background(), "ZZZZ")
	if !errors.Is(err, models.ErrTickerNotFound) {
		t.Errorf("expected ErrTickerNotFound for 404, got %v", err)
	}
}

func TestGetSustainability(t *testing.T) {
	c := newTestClient(newTestServer(t))

	esg, err := c.GetSustainability(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetSustainability failed: %v", err)
	}
	if esg.RatingYear != 2024 {
		t.Errorf("expected rating year 2024, got %d", esg.RatingYear)
	}
	if esg.HighestControversy == nil || *esg.HighestControversy != 3 {
		t.Errorf("expected controversy 3, got %v", esg.HighestControversy)
	}
}

func TestGetHistory(t *testing.T) {
	c := newTestClient(newTestServer(t))

	bars, err := c.GetHistory(context.Background(), "AAPL", models.Period1Y)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[1].Close != 203.1 || bars[1].AdjClose != 202.8 {
		t.Errorf("unexpected last bar %+v", bars[1])
	}
}

func TestGetHistory_ExplicitExchange(t *testing.T) {
	c := newTestClient(newTestServer(t))

	bars, err := c.GetHistory(context.Background(), "BHP.AU", models.Period1Y)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected no bars, got %d", len(bars))
	}
}

func TestGetHistory_APIError(t *testing.T) {
	c := newTestClient(newTestServer(t))

	_, err := c.GetHistory(context.Background(), "FAIL", models.Period1Y)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Endpoint != "/eod/FAIL.US" {
		t.Errorf("unexpected APIError %+v", apiErr)
	}
}

func TestGetNews(t *testing.T) {
	c := newTestClient(newTestServer(t))

	news, err := c.GetNews(context.Background(), "AAPL", 5)
	if err != nil {
		t.Fatalf("GetNews failed: %v", err)
	}
	if len(news) != 2 {
		t.Fatalf("expected 2 items, got %d", len(news))
	}
	for i, n := range news {
		if n.Published.IsZero() {
			t.Errorf("item %d: expected parsed date", i)
		}
	}
}

func TestWithHTTPClient_CopiesClient(t *testing.T) {
	shared := &http.Client{Timeout: 5 * time.Second}

	c := NewClient("demo", WithHTTPClient(shared), WithTimeout(time.Minute))

	if shared.Timeout != 5*time.Second {
		t.Errorf("expected the caller's timeout to stay 5s, got %s", shared.Timeout)
	}
	if c.httpClient == shared {
		t.Error("expected the client to hold its own copy")
	}
	if c.httpClient.Timeout != time.Minute {
		t.Errorf("expected the copy to take the configured timeout, got %s", c.httpClient.Timeout)
	}
}
