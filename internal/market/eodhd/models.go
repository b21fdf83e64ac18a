package eodhd

// eodData represents a single day's end-of-day price data.
type eodData struct {
	DateStr       string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// fundamentalsResponse holds the sections of /fundamentals this provider reads.
// Pointers stay nil when EODHD sends null.
type fundamentalsResponse struct {
	General *struct {
		Code         string `json:"Code"`
		Name         string `json:"Name"`
		Exchange     string `json:"Exchange"`
		CurrencyCode string `json:"CurrencyCode"`
		CountryName  string `json:"CountryName"`
		Sector       string `json:"Sector"`
		Industry     string `json:"Industry"`
	} `json:"General"`

	Highlights *struct {
		MarketCapitalization       *float64 `json:"MarketCapitalization"`
		PERatio                    *float64 `json:"PERatio"`
		DividendYield              *float64 `json:"DividendYield"`
		ProfitMargin               *float64 `json:"ProfitMargin"`
		OperatingMarginTTM         *float64 `json:"OperatingMarginTTM"`
		ReturnOnAssetsTTM          *float64 `json:"ReturnOnAssetsTTM"`
		ReturnOnEquityTTM          *float64 `json:"ReturnOnEquityTTM"`
		RevenueTTM                 *float64 `json:"RevenueTTM"`
		GrossProfitTTM             *float64 `json:"GrossProfitTTM"`
		QuarterlyRevenueGrowthYOY  *float64 `json:"QuarterlyRevenueGrowthYOY"`
		QuarterlyEarningsGrowthYOY *float64 `json:"QuarterlyEarningsGrowthYOY"`
	} `json:"Highlights"`

	Valuation *struct {
		TrailingPE   *float64 `json:"TrailingPE"`
		ForwardPE    *float64 `json:"ForwardPE"`
		PriceBookMRQ *float64 `json:"PriceBookMRQ"`
	} `json:"Valuation"`

	Technicals *struct {
		Beta             *float64 `json:"Beta"`
		FiftyTwoWeekHigh *float64 `json:"52WeekHigh"`
		FiftyTwoWeekLow  *float64 `json:"52WeekLow"`
	} `json:"Technicals"`

	ESGScores *struct {
		RatingDate       string   `json:"ratingDate"`
		TotalEsg         *float64 `json:"totalEsg"`
		EnvironmentScore *float64 `json:"environmentScore"`
		SocialScore      *float64 `json:"socialScore"`
		GovernanceScore  *float64 `json:"governanceScore"`
		ControversyLevel *float64 `json:"controversyLevel"`
	} `json:"ESGScores"`
}

// newsItem represents a single news article.
type newsItem struct {
	DateStr string   `json:"date"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Link    string   `json:"link"`
	Symbols []string `json:"symbols"`
	Tags    []string `json:"tags"`
}
