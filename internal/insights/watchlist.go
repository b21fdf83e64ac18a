package insights

import (
	"context"
	"strings"

	"github.com/bobmcallan/argentis/internal/analytics"
	"github.com/bobmcallan/argentis/internal/models"
	"github.com/bobmcallan/argentis/internal/report"
)

// DashboardNewsLimit caps the headlines shown per dashboard card.
const DashboardNewsLimit = 5

const lastTrackedKey = "prefs:tracking"

// DashboardCard is one ticker of the custom dashboard. Error is set when the
// ticker could not be fetched; Price is nil without history.
type DashboardCard struct {
	Symbol  string            `json:"symbol"`
	Name    string            `json:"name,omitempty"`
	Error   string            `json:"error,omitempty"`
	Price   *float64          `json:"price"`
	History []models.Bar      `json:"-"`
	Ratios  []analytics.Ratio `json:"ratios,omitempty"`
	News    []models.NewsItem `json:"news,omitempty"`
}

// Dashboard builds one card per ticker, in input order.
func (s *Service) Dashboard(ctx context.Context, symbols []string) ([]DashboardCard, error) {
	syms, err := requireSymbols(symbols)
	if err != nil {
		return nil, err
	}
	datas, errs := s.fetchAll(ctx, syms)
	cards := make([]DashboardCard, len(syms))
	for i, sym := range syms {
		cards[i].Symbol = sym
		if errs[i] != nil {
			cards[i].Error = fetchFailed(sym, errs[i]).Message
			continue
		}
		d := datas[i]
		cards[i].Name = d.Info.DisplayName()
		if price, ok := d.LastClose(); ok {
			cards[i].Price = &price
		}
		cards[i].History = d.History
		cards[i].Ratios = analytics.Ratios(d.Info)
		cards[i].News = d.News
		if len(cards[i].News) > DashboardNewsLimit {
			cards[i].News = cards[i].News[:DashboardNewsLimit]
		}
	}
	return cards, nil
}

// Tracking is the real-time tracking page result.
type Tracking struct {
	Quotes   []analytics.Quote `json:"quotes"`
	Warnings []string          `json:"warnings,omitempty"`
}

// Track returns the last close and daily change for up to MaxTracking tickers
// and remembers the list for the next visit.
func (s *Service) Track(ctx context.Context, symbols []string) (*Tracking, error) {
	syms, err := requireSymbols(symbols)
	if err != nil {
		return nil, err
	}
	if len(syms) > s.cfg.MaxTracking {
		return nil, userError(ErrInvalidInput, "Vous avez saisi plus de %d titres. Veuillez limiter à %d titres maximum.", s.cfg.MaxTracking, s.cfg.MaxTracking)
	}

	out := &Tracking{}
	datas, errs := s.fetchAll(ctx, syms)
	for i, sym := range syms {
		if errs[i] != nil {
			out.Warnings = append(out.Warnings, "Impossible de récupérer les données pour "+sym+".")
			continue
		}
		q, ok := analytics.LatestQuote(sym, datas[i].History)
		if !ok {
			out.Warnings = append(out.Warnings, "Aucune donnée disponible pour "+sym+".")
			continue
		}
		out.Quotes = append(out.Quotes, q)
	}

	if s.prefs != nil {
		if err := s.prefs.Set(ctx, lastTrackedKey, strings.Join(syms, ",")); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to save tracked tickers")
		}
	}
	return out, nil
}

// LastTracked returns the ticker list of the previous tracking request, or "".
func (s *Service) LastTracked(ctx context.Context) string {
	if s.prefs == nil {
		return ""
	}
	v, err := s.prefs.Get(ctx, lastTrackedKey)
	if err != nil {
		return ""
	}
	return v
}

// Report is the export page result.
type Report struct {
	Rows     []report.Row `json:"rows"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Report builds the export table rows.
func (s *Service) Report(ctx context.Context, symbols []string) (*Report, error) {
	syms, err := requireSymbols(symbols)
	if err != nil {
		return nil, err
	}
	out := &Report{}
	datas, errs := s.fetchAll(ctx, syms)
	for i, sym := range syms {
		if errs[i] != nil {
			out.Warnings = append(out.Warnings, "Impossible de récupérer les données pour "+sym+".")
			continue
		}
		row, ok := report.BuildRow(datas[i])
		if !ok {
			out.Warnings = append(out.Warnings, "Aucune donnée historique disponible pour "+sym+".")
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
