// Package report builds the investment report table and renders it as CSV or PDF.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/argentis/internal/analytics"
	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/models"
)

// CSVFilename is the download name of the CSV report.
const CSVFilename = "rapport_investissement.csv"

// PDFFilename is the download name of the PDF report.
const PDFFilename = "rapport_investissement.pdf"

// Headers are the report columns in order.
var Headers = []string{"Ticker", "Prix Actuel ($)", "P/E Ratio", "Volatilité Annualisée (%)"}

// Row is one ticker of the report.
type Row struct {
	Symbol        string   `json:"ticker"`
	Price         float64  `json:"price"`
	PE            *float64 `json:"pe_ratio"`
	VolatilityPct *float64 `json:"volatility_pct"`
}

// BuildRow derives a report row from a ticker bundle. ok is false when the
// bundle has no price history.
func BuildRow(data *models.TickerData) (Row, bool) {
	price, ok := data.LastClose()
	if !ok {
		return Row{Symbol: data.Symbol}, false
	}
	row := Row{Symbol: data.Symbol, Price: price}
	if data.Info != nil {
		row.PE = data.Info.TrailingPE
	}
	if returns := analytics.PctChange(models.Closes(data.History)); len(returns) >= 2 {
		vol := analytics.AnnualizedVolatility(returns) * 100
		row.VolatilityPct = &vol
	}
	return row, true
}

// Cells returns the row values as text, two decimals, "N/A" when missing.
func (r Row) Cells() []string {
	return []string{r.Symbol, fixed2(&r.Price), fixed2(r.PE), fixed2(r.VolatilityPct)}
}

func fixed2(v *float64) string {
	if v == nil {
		return common.NotAvailable
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}

// WriteCSV writes the header line and one line per row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Cells()); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", r.Symbol, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
