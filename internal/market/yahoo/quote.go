package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bobmcallan/argentis/internal/models"
)

const infoModules = "price,summaryDetail,financialData,defaultKeyStatistics,assetProfile"

func (c *Client) quoteSummary(ctx context.Context, symbol, modules string) (*quoteSummaryResult, error) {
	params := url.Values{}
	params.Set("modules", modules)

	var resp quoteSummaryResponse
	if err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%s: %s: %w", symbol, resp.QuoteSummary.Error.Description, models.ErrTickerNotFound)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, models.ErrTickerNotFound)
	}
	return &resp.QuoteSummary.Result[0], nil
}

// GetInfo fetches descriptive fields and fundamentals.
func (c *Client) GetInfo(ctx context.Context, symbol string) (*models.Info, error) {
	r, err := c.quoteSummary(ctx, symbol, infoModules)
	if err != nil {
		return nil, err
	}

	sd, fd := r.SummaryDetail, r.FinancialData
	info := &models.Info{
		Symbol:    symbol,
		LongName:  r.Price.LongName,
		ShortName: r.Price.ShortName,
		Currency:  r.Price.Currency,
		Exchange:  r.Price.ExchangeName,
		Sector:    r.AssetProfile.Sector,
		Industry:  r.AssetProfile.Industry,
		Country:   r.AssetProfile.Country,

		CurrentPrice:     fd.CurrentPrice.Raw,
		PreviousClose:    sd.PreviousClose.Raw,
		Bid:              sd.Bid.Raw,
		Ask:              sd.Ask.Raw,
		FiftyTwoWeekLow:  sd.FiftyTwoWeekLow.Raw,
		FiftyTwoWeekHigh: sd.FiftyTwoWeekHigh.Raw,
		MarketCap:        sd.MarketCap.Raw,

		TrailingPE:    sd.TrailingPE.Raw,
		ForwardPE:     sd.ForwardPE.Raw,
		PriceToBook:   r.DefaultKeyStatistics.PriceToBook.Raw,
		DividendYield: sd.DividendYield.Raw,
		Beta:          sd.Beta.Raw,

		ReturnOnEquity:   fd.ReturnOnEquity.Raw,
		ReturnOnAssets:   fd.ReturnOnAssets.Raw,
		DebtToEquity:     fd.DebtToEquity.Raw,
		CurrentRatio:     fd.CurrentRatio.Raw,
		QuickRatio:       fd.QuickRatio.Raw,
		GrossMargins:     fd.GrossMargins.Raw,
		ProfitMargins:    fd.ProfitMargins.Raw,
		OperatingMargins: fd.OperatingMargins.Raw,
		RevenueGrowth:    fd.RevenueGrowth.Raw,
		EarningsGrowth:   fd.EarningsGrowth.Raw,

		TotalDebt:         fd.TotalDebt.Raw,
		OperatingCashflow: fd.OperatingCashflow.Raw,
		FreeCashflow:      fd.FreeCashflow.Raw,
	}
	if info.CurrentPrice == nil {
		info.CurrentPrice = r.Price.RegularPrice.Raw
	}
	return info, nil
}

// GetSustainability fetches ESG scores. Returns nil when Yahoo has none for the symbol.
func (c *Client) GetSustainability(ctx context.Context, symbol string) (*models.ESGScores, error) {
	r, err := c.quoteSummary(ctx, symbol, "esgScores")
	if err != nil {
		return nil, err
	}
	if r.ESGScores == nil {
		return nil, nil
	}
	e := r.ESGScores
	scores := &models.ESGScores{
		TotalESG:           e.TotalEsg.Raw,
		EnvironmentScore:   e.EnvironmentScore.Raw,
		SocialScore:        e.SocialScore.Raw,
		GovernanceScore:    e.GovernanceScore.Raw,
		HighestControversy: e.HighestControversy.Raw,
		Percentile:         e.Percentile.Raw,
		PeerGroup:          e.PeerGroup,
		RatingYear:         e.RatingYear,
	}
	if scores.Empty() {
		return nil, nil
	}
	return scores, nil
}
