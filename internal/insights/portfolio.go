package insights

import (
	"context"

	"github.com/bobmcallan/argentis/internal/analytics"
	"github.com/bobmcallan/argentis/internal/models"
)

// WeightWarningMessage is shown when portfolio weights do not sum to about 100%.
const WeightWarningMessage = "La somme des poids doit être proche de 100% (entre 95% et 105%)."

// Recommendations is the recommendations page result.
type Recommendations struct {
	Sort     string                     `json:"sort"`
	Items    []analytics.Recommendation `json:"items"`
	Warnings []string                   `json:"warnings,omitempty"`
}

// Recommend scores each ticker and sorts the results by sortKey.
func (s *Service) Recommend(ctx context.Context, symbols []string, sortKey string) (*Recommendations, error) {
	key, err := analytics.ParseSortKey(sortKey)
	if err != nil {
		return nil, userError(ErrInvalidInput, "Critère de tri inconnu : %s.", sortKey)
	}
	syms, err := requireSymbols(symbols)
	if err != nil {
		return nil, err
	}

	out := &Recommendations{Sort: key}
	datas, errs := s.fetchAll(ctx, syms)
	for i, sym := range syms {
		if errs[i] != nil || datas[i].Info == nil {
			out.Warnings = append(out.Warnings, "Impossible de récupérer les données pour "+sym+". Essayez un autre ticker.")
			continue
		}
		out.Items = append(out.Items, analytics.Recommend(sym, datas[i].Info))
	}
	analytics.SortRecommendations(out.Items, key)
	return out, nil
}

// alignedReturns fetches histories for every symbol and aligns their daily returns.
// Any symbol without usable history fails the whole request.
func (s *Service) alignedReturns(ctx context.Context, symbols []string, period models.Period, noData, insufficient string) (*analytics.Aligned, [][]float64, error) {
	histories, invalid, err := s.market.GetHistories(ctx, symbols, period)
	if err != nil {
		return nil, nil, userError(err, "Impossible de récupérer les données pour les tickers suivants : %s. Essayez d'autres tickers (par exemple, AAPL, MSFT).", joinSymbols(symbols))
	}
	if len(invalid) > 0 {
		return nil, nil, userError(models.ErrTickerNotFound, "Impossible de récupérer les données pour les tickers suivants : %s. Essayez d'autres tickers (par exemple, AAPL, MSFT).", joinSymbols(invalid))
	}

	aligned := analytics.AlignCloses(symbols, histories)
	if len(aligned.Dates) == 0 {
		return nil, nil, userError(models.ErrNoData, noData, joinSymbols(symbols), period)
	}
	returns := aligned.Returns()
	if len(returns) == 0 || len(returns[0]) < 2 {
		return nil, nil, userError(analytics.ErrInsufficientData, insufficient, joinSymbols(symbols), period)
	}
	return aligned, returns, nil
}

// RiskRequest holds the risk page parameters. Zero values select the defaults.
type RiskRequest struct {
	Symbols    []string
	Period     models.Period
	Confidence int
	Scenario   analytics.Scenario
}

// Risk is the risk page result.
type Risk struct {
	*analytics.RiskReport
	Period        models.Period `json:"period"`
	ScenarioLabel string        `json:"scenario_label"`
}

// AssessRisk computes VaR, CVaR, volatility and the stress scenario VaR.
func (s *Service) AssessRisk(ctx context.Context, req RiskRequest) (*Risk, error) {
	syms, err := requireSymbols(req.Symbols)
	if err != nil {
		return nil, err
	}
	if req.Period == "" {
		req.Period = models.Period1Y
	}
	if req.Confidence == 0 {
		req.Confidence = analytics.DefaultConfidence
	}
	if req.Confidence < analytics.MinConfidence || req.Confidence > analytics.MaxConfidence {
		return nil, userError(ErrInvalidInput, "Le niveau de confiance doit être compris entre %d et %d %%.", analytics.MinConfidence, analytics.MaxConfidence)
	}
	scenario, err := analytics.ParseScenario(string(req.Scenario))
	if err != nil {
		return nil, userError(ErrInvalidInput, "Scénario inconnu : %s.", req.Scenario)
	}

	aligned, returns, err := s.alignedReturns(ctx, syms, req.Period,
		"Aucune donnée disponible pour les tickers %s sur la période %s. Vérifiez les tickers ou essayez une autre période.",
		"Données insuffisantes pour calculer les rendements. Assurez-vous que les tickers %s ont suffisamment de données sur la période %s.")
	if err != nil {
		return nil, err
	}

	report, err := analytics.AssessRisk(aligned.Symbols, returns, req.Confidence, scenario, s.rng())
	if err != nil {
		return nil, userError(err, "Erreur lors du calcul des risques : %v", err)
	}
	return &Risk{RiskReport: report, Period: req.Period, ScenarioLabel: scenario.Label()}, nil
}

// OptimizeRequest holds the optimisation page parameters.
type OptimizeRequest struct {
	Symbols     []string
	Period      models.Period
	Simulations int
}

// Optimization is the optimisation page result.
type Optimization struct {
	*analytics.Optimization
	Period models.Period `json:"period"`
}

// Optimize searches random portfolios for the best return over volatility.
func (s *Service) Optimize(ctx context.Context, req OptimizeRequest) (*Optimization, error) {
	syms, err := requireSymbols(req.Symbols)
	if err != nil {
		return nil, err
	}
	if req.Period == "" {
		req.Period = models.Period1Y
	}
	sims := req.Simulations
	if sims == 0 {
		sims = s.cfg.Simulations
	}
	sims = analytics.ClampSimulations(sims)

	aligned, returns, err := s.alignedReturns(ctx, syms, req.Period,
		"Aucune donnée disponible pour les tickers %s sur la période sélectionnée (%s). Vérifiez les tickers ou essayez une autre période.",
		"Données insuffisantes pour effectuer l'optimisation. Assurez-vous que les tickers %s ont suffisamment de données sur la période %s.")
	if err != nil {
		return nil, err
	}

	moments, err := analytics.ComputeMoments(returns)
	if err != nil {
		return nil, userError(err, "Erreur lors de l'optimisation : %v", err)
	}
	opt, err := analytics.Optimize(aligned.Symbols, moments, sims, s.rng())
	if err != nil {
		return nil, userError(err, "Erreur lors de l'optimisation : %v", err)
	}
	s.logger.Debug().Strs("symbols", aligned.Symbols).Int("simulations", sims).Float64("sharpe", opt.Sharpe).Msg("Portfolio optimised")
	return &Optimization{Optimization: opt, Period: req.Period}, nil
}

// SimulatePortfolio evaluates user weights over five years of history and
// runs the embedded optimisation.
func (s *Service) SimulatePortfolio(ctx context.Context, rows []analytics.HoldingInput, sims int) (*analytics.PortfolioResult, error) {
	if len(rows) > s.cfg.MaxPortfolio {
		return nil, userError(ErrInvalidInput, "Vous pouvez saisir au maximum %d titres.", s.cfg.MaxPortfolio)
	}
	holdings, err := analytics.BuildHoldings(rows)
	if err != nil {
		return nil, userError(ErrInvalidInput, "Saisie du portefeuille invalide : %v", err)
	}
	if len(holdings) == 0 {
		return nil, userError(ErrInvalidInput, "Veuillez saisir au moins un symbole ou compagnie avec un poids valide.")
	}
	if sims == 0 {
		sims = s.cfg.Simulations
	}
	sims = analytics.ClampSimulations(sims)

	symbols := make([]string, len(holdings))
	for i, h := range holdings {
		symbols[i] = h.Symbol
	}
	_, returns, err := s.alignedReturns(ctx, symbols, models.Period5Y,
		"Erreur lors de la simulation : aucune donnée disponible pour %s sur la période %s.",
		"Erreur lors de la simulation : données insuffisantes pour %s sur la période %s.")
	if err != nil {
		return nil, err
	}

	result, err := analytics.SimulatePortfolio(holdings, returns, sims, s.rng())
	if err != nil {
		return nil, userError(err, "Erreur lors de la simulation : %v", err)
	}
	return result, nil
}
