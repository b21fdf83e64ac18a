package yahoo

import (
	"encoding/json"
	"strconv"
)

// value decodes Yahoo's {"raw": 1.23, "fmt": "1.23"} wrapper, a bare number,
// or an empty object. Raw is nil when absent or not a finite number.
type value struct {
	Raw *float64
}

func (v *value) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			Raw json.RawMessage `json:"raw"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		b = obj.Raw
		if len(b) == 0 {
			return nil
		}
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		// "Infinity" and other non-numeric raws are treated as missing
		return nil
	}
	v.Raw = &f
	return nil
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	Price struct {
		LongName     string `json:"longName"`
		ShortName    string `json:"shortName"`
		Currency     string `json:"currency"`
		ExchangeName string `json:"exchangeName"`
		RegularPrice value  `json:"regularMarketPrice"`
	} `json:"price"`

	SummaryDetail struct {
		TrailingPE       value `json:"trailingPE"`
		ForwardPE        value `json:"forwardPE"`
		MarketCap        value `json:"marketCap"`
		Bid              value `json:"bid"`
		Ask              value `json:"ask"`
		FiftyTwoWeekLow  value `json:"fiftyTwoWeekLow"`
		FiftyTwoWeekHigh value `json:"fiftyTwoWeekHigh"`
		DividendYield    value `json:"dividendYield"`
		Beta             value `json:"beta"`
		PreviousClose    value `json:"previousClose"`
	} `json:"summaryDetail"`

	FinancialData struct {
		CurrentPrice      value `json:"currentPrice"`
		TotalDebt         value `json:"totalDebt"`
		OperatingCashflow value `json:"operatingCashflow"`
		FreeCashflow      value `json:"freeCashflow"`
		ReturnOnEquity    value `json:"returnOnEquity"`
		ReturnOnAssets    value `json:"returnOnAssets"`
		DebtToEquity      value `json:"debtToEquity"`
		CurrentRatio      value `json:"currentRatio"`
		QuickRatio        value `json:"quickRatio"`
		GrossMargins      value `json:"grossMargins"`
		ProfitMargins     value `json:"profitMargins"`
		OperatingMargins  value `json:"operatingMargins"`
		RevenueGrowth     value `json:"revenueGrowth"`
		EarningsGrowth    value `json:"earningsGrowth"`
	} `json:"financialData"`

	DefaultKeyStatistics struct {
		PriceToBook value `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`

	AssetProfile struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
		Country  string `json:"country"`
	} `json:"assetProfile"`

	ESGScores *struct {
		TotalEsg           value  `json:"totalEsg"`
		EnvironmentScore   value  `json:"environmentScore"`
		SocialScore        value  `json:"socialScore"`
		GovernanceScore    value  `json:"governanceScore"`
		HighestControversy value  `json:"highestControversy"`
		Percentile         value  `json:"percentile"`
		PeerGroup          string `json:"peerGroup"`
		RatingYear         int    `json:"ratingYear"`
	} `json:"esgScores"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				Currency  string `json:"currency"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}
