package analytics

import "github.com/bobmcallan/argentis/internal/models"

// Performer is one row of the daily movers tables.
type Performer struct {
	Symbol    string  `json:"symbol"`
	ReturnPct float64 `json:"return_pct"`
	Change    float64 `json:"change"`
}

// TopBottomPerformers returns the fixed top and bottom five movers shown on the home page.
func TopBottomPerformers() (top, bottom []Performer) {
	top = []Performer{
		{Symbol: "AAPL", ReturnPct: 5.2, Change: 8.50},
		{Symbol: "MSFT", ReturnPct: 4.8, Change: 12.30},
		{Symbol: "GOOGL", ReturnPct: 3.9, Change: 6.20},
		{Symbol: "AMZN", ReturnPct: 3.1, Change: 9.10},
		{Symbol: "TSLA", ReturnPct: 2.7, Change: 15.40},
	}
	bottom = []Performer{
		{Symbol: "NFLX", ReturnPct: -4.5, Change: -7.80},
		{Symbol: "PYPL", ReturnPct: -3.8, Change: -5.40},
		{Symbol: "DIS", ReturnPct: -3.2, Change: -4.10},
		{Symbol: "WMT", ReturnPct: -2.9, Change: -3.60},
		{Symbol: "PEP", ReturnPct: -2.1, Change: -2.50},
	}
	return top, bottom
}

// Headline is one entry of the home page news ticker.
type Headline struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
}

// MarketHeadlines returns the fixed home page headlines.
func MarketHeadlines() []Headline {
	return []Headline{
		{Icon: "📈", Title: "Les marchés atteignent un nouveau record cette semaine !"},
		{Icon: "💻", Title: "La tech continue de dominer avec de nouvelles innovations."},
		{Icon: "🌍", Title: "Investissements verts : une tendance qui s’accélère."},
		{Icon: "📉", Title: "Volatilité accrue sur les marchés émergents."},
		{Icon: "🏦", Title: "Les banques centrales ajustent leurs taux directeurs."},
	}
}

// Quote is the latest close and its change from the previous close.
type Quote struct {
	Symbol    string   `json:"symbol"`
	Price     float64  `json:"price"`
	Change    *float64 `json:"change"`
	ChangePct *float64 `json:"change_pct"`
}

// LatestQuote derives the tracking quote from daily bars. Change fields are nil
// with a single bar; ok is false without bars.
func LatestQuote(symbol string, bars []models.Bar) (Quote, bool) {
	if len(bars) == 0 {
		return Quote{Symbol: symbol}, false
	}
	q := Quote{Symbol: symbol, Price: bars[len(bars)-1].Close}
	if len(bars) >= 2 {
		prev := bars[len(bars)-2].Close
		change := q.Price - prev
		q.Change = &change
		if prev != 0 {
			pct := change / prev * 100
			q.ChangePct = &pct
		}
	}
	return q, true
}
