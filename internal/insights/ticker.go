package insights

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/argentis/internal/analytics"
	"github.com/bobmcallan/argentis/internal/models"
)

// TickerSummary is the home page search result.
type TickerSummary struct {
	Symbol     string                `json:"symbol"`
	Name       string                `json:"name"`
	Price      float64               `json:"price"`
	Period     models.Period         `json:"period"`
	History    []models.Bar          `json:"history"`
	Indicators *analytics.Indicators `json:"indicators"`
	Info       *models.Info          `json:"info"`
	FetchedAt  time.Time             `json:"fetched_at"`
}

// TickerSummary fetches a ticker and trims its history to period. Indicators
// are computed over the full history and cut to the same window.
func (s *Service) TickerSummary(ctx context.Context, symbol string, period models.Period) (*TickerSummary, error) {
	sym, err := requireSymbol(symbol)
	if err != nil {
		return nil, err
	}
	data, err := s.market.GetTickerData(ctx, sym)
	if err != nil {
		return nil, fetchFailed(sym, err)
	}
	price, ok := data.LastClose()
	if !ok {
		return nil, userError(models.ErrNoData, "Aucune donnée historique disponible pour %s.", sym)
	}

	info := data.Info
	if info == nil {
		info = &models.Info{Symbol: sym}
	}
	history := period.Trim(data.History)
	full := analytics.ComputeIndicators(models.Closes(data.History))
	from := len(data.History) - len(history)

	return &TickerSummary{
		Symbol:  sym,
		Name:    info.DisplayName(),
		Price:   price,
		Period:  period,
		History: history,
		Indicators: &analytics.Indicators{
			SMA20:  full.SMA20[from:],
			SMA50:  full.SMA50[from:],
			RSI14:  full.RSI14[from:],
			Last20: full.Last20,
			Last50: full.Last50,
			RSI:    full.RSI,
		},
		Info:      info,
		FetchedAt: data.FetchedAt,
	}, nil
}

// Evaluation is the evaluation page result.
type Evaluation struct {
	analytics.Valuation
	Name    string                    `json:"name"`
	Params  analytics.ValuationParams `json:"-"`
	History []models.Bar              `json:"-"`
}

// Evaluate computes WACC, DCF and ratios for a ticker.
func (s *Service) Evaluate(ctx context.Context, symbol string) (*Evaluation, error) {
	sym, err := requireSymbol(symbol)
	if err != nil {
		return nil, err
	}
	data, err := s.market.GetTickerData(ctx, sym)
	if err != nil {
		return nil, fetchFailed(sym, err)
	}
	params := s.valuationParams()
	return &Evaluation{
		Valuation: analytics.Evaluate(data, params),
		Name:      data.Info.DisplayName(),
		Params:    params,
		History:   data.History,
	}, nil
}

// Comparison is the two-asset comparison result. Performance entries are nil
// when a ticker has too few returns; Chart is nil without two shared dates.
type Comparison struct {
	Symbols     []string                    `json:"symbols"`
	Ratios      []analytics.RatioComparison `json:"ratios"`
	Performance []*analytics.Performance    `json:"performance"`
	Period      models.Period               `json:"period"`
	Chart       *analytics.Aligned          `json:"-"`
}

// Compare fetches two tickers and compares ratios, performance and price history.
func (s *Service) Compare(ctx context.Context, first, second string, period models.Period) (*Comparison, error) {
	a, b := models.NormalizeSymbol(first), models.NormalizeSymbol(second)
	if a == "" || b == "" {
		return nil, userError(ErrInvalidInput, "Veuillez saisir les deux actifs pour lancer la comparaison.")
	}

	var da, db *models.TickerData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		da, err = s.market.GetTickerData(gctx, a)
		return err
	})
	g.Go(func() (err error) {
		db, err = s.market.GetTickerData(gctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, userError(err, "Impossible de récupérer les données pour %s ou %s. Essayez d'autres tickers (par exemple, AAPL et MSFT).", a, b)
	}
	if len(da.History) == 0 || len(db.History) == 0 {
		return nil, userError(models.ErrNoData, "Aucune donnée historique disponible pour %s ou %s.", a, b)
	}

	c := &Comparison{
		Symbols: []string{a, b},
		Ratios:  analytics.CompareRatios(da.Info, db.Info),
		Period:  period,
	}
	for _, d := range []*models.TickerData{da, db} {
		perf, err := analytics.ComputePerformance(d.Symbol, d.History)
		if err != nil {
			c.Performance = append(c.Performance, nil)
			continue
		}
		c.Performance = append(c.Performance, &perf)
	}

	aligned := analytics.AlignCloses(c.Symbols, map[string][]models.Bar{
		a: period.Trim(da.History),
		b: period.Trim(db.History),
	})
	if len(aligned.Dates) >= 2 {
		c.Chart = aligned
	}
	return c, nil
}

// ESG is the sustainability page result.
type ESG struct {
	Symbol string            `json:"symbol"`
	Name   string            `json:"name"`
	Scores *models.ESGScores `json:"scores"`
}

// Sustainability returns the ESG scores of a ticker.
func (s *Service) Sustainability(ctx context.Context, symbol string) (*ESG, error) {
	sym, err := requireSymbol(symbol)
	if err != nil {
		return nil, err
	}
	data, err := s.market.GetTickerData(ctx, sym)
	if err != nil {
		return nil, userError(err, "Les données ESG pour %s ne sont pas disponibles.", sym)
	}
	if data.Sustainability.Empty() {
		return nil, userError(models.ErrNoData, "Les données ESG pour %s ne sont pas disponibles.", sym)
	}
	return &ESG{Symbol: sym, Name: data.Info.DisplayName(), Scores: data.Sustainability}, nil
}

// Sentiment is the sentiment page result. Notice explains a fallback to simulated headlines.
type Sentiment struct {
	*analytics.SentimentReport
	Notice string `json:"notice,omitempty"`
}

// Sentiment scores the news of a ticker, falling back to simulated headlines
// when the ticker or its news cannot be fetched.
func (s *Service) Sentiment(ctx context.Context, symbol string) (*Sentiment, error) {
	sym, err := requireSymbol(symbol)
	if err != nil {
		return nil, err
	}
	data, err := s.market.GetTickerData(ctx, sym)
	if err != nil {
		s.logger.Warn().Str("symbol", sym).Err(err).Msg("News unavailable, scoring simulated headlines")
		return &Sentiment{
			SentimentReport: analytics.AnalyzeSentiment(sym, nil),
			Notice:          "Les actualités ne sont pas disponibles pour ce ticker. Utilisation de données simulées.",
		}, nil
	}
	out := &Sentiment{SentimentReport: analytics.AnalyzeSentiment(sym, data.News)}
	if out.Simulated {
		out.Notice = "Aucune actualité récente disponible. Utilisation de données simulées."
	}
	return out, nil
}

// Forecast is the forecast page result.
type Forecast struct {
	*analytics.ForecastReport
	History []models.Bar `json:"-"`
}

// Forecast runs both forecasting models over the ticker history.
func (s *Service) Forecast(ctx context.Context, symbol string, days int) (*Forecast, error) {
	sym, err := requireSymbol(symbol)
	if err != nil {
		return nil, err
	}
	data, err := s.market.GetTickerData(ctx, sym)
	if err != nil {
		return nil, userError(err, "Aucune donnée disponible pour %s. Vérifiez le ticker ou essayez un autre symbole (par exemple, AAPL ou MSFT).", sym)
	}
	if !models.ValidHistory(data.History) {
		return nil, userError(models.ErrNoData, "Aucune donnée historique valide pour %s.", sym)
	}

	report, err := analytics.ForecastPrices(sym, data.History, days)
	if err != nil {
		if report == nil || errors.Is(err, analytics.ErrInsufficientData) {
			return nil, userError(analytics.ErrInsufficientData, "Aucune donnée historique valide pour %s.", sym)
		}
		return nil, userError(analytics.ErrInsufficientData, "Erreur lors des prévisions pour %s. Essayez un autre ticker ou ajustez les paramètres.", sym)
	}
	return &Forecast{ForecastReport: report, History: data.History}, nil
}
