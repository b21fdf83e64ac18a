package analytics

import (
	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/models"
)

// Ratio is one named financial ratio. Value is nil when the provider has no figure.
type Ratio struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// Display formats the ratio value with two decimals, or "N/A".
func (r Ratio) Display() string {
	return common.FormatRatio(r.Value)
}

// CompareDisplay formats the ratio for the comparison table, where missing values show "-".
func (r Ratio) CompareDisplay() string {
	if s := r.Display(); s != common.NotAvailable {
		return s
	}
	return "-"
}

// Ratios returns the nine key ratios in display order.
func Ratios(info *models.Info) []Ratio {
	if info == nil {
		info = &models.Info{}
	}
	return []Ratio{
		{Name: "PER", Value: info.TrailingPE},
		{Name: "PBR", Value: info.PriceToBook},
		{Name: "ROE", Value: info.ReturnOnEquity},
		{Name: "ROA", Value: info.ReturnOnAssets},
		{Name: "Debt to Equity", Value: info.DebtToEquity},
		{Name: "Current Ratio", Value: info.CurrentRatio},
		{Name: "Quick Ratio", Value: info.QuickRatio},
		{Name: "Gross Margin", Value: info.GrossMargins},
		{Name: "Net Margin", Value: info.ProfitMargins},
	}
}

// RatioComparison is a row of the side-by-side ratio table.
type RatioComparison struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// CompareRatios builds the comparison rows for several infos, in the given order.
func CompareRatios(infos ...*models.Info) []RatioComparison {
	names := Ratios(nil)
	rows := make([]RatioComparison, len(names))
	for i, r := range names {
		rows[i] = RatioComparison{Name: r.Name, Values: make([]string, len(infos))}
	}
	for j, info := range infos {
		for i, r := range Ratios(info) {
			rows[i].Values[j] = r.CompareDisplay()
		}
	}
	return rows
}
