package common

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// NotAvailable is displayed for any metric the provider did not return.
const NotAvailable = "N/A"

// FormatMoney formats a USD amount with thousands separators, e.g. "$1,234.56".
func FormatMoney(v float64) string {
	return FormatMoneyWithCurrency(v, money.USD)
}

// FormatMoneyWithCurrency formats v using the currency's symbol and grouping.
// Unknown currency codes fall back to USD.
func FormatMoneyWithCurrency(v float64, currency string) string {
	if money.GetCurrency(currency) == nil {
		currency = money.USD
	}
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return money.New(cents, currency).Display()
}

// FormatPrice formats a price the way the pages show it: "187.42 $".
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f $", v)
}

// FormatPriceMillions formats an absolute amount in millions: "1234.56 M$".
func FormatPriceMillions(v float64) string {
	return fmt.Sprintf("%.2f M$", v/1e6)
}

// FormatMarketCap formats a market capitalisation in billions: "2950.12 Mds $".
func FormatMarketCap(v float64) string {
	return fmt.Sprintf("%.2f Mds $", v/1e9)
}

// FormatPercent formats a value already expressed in percent: "12.34%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatSignedPct formats a percentage with +/- prefix
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatRatio formats an optional metric with two decimals, or N/A.
func FormatRatio(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", *v)
}

// FormatOptionalPrice formats an optional price, or N/A.
func FormatOptionalPrice(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatPrice(*v)
}

// FormatOptionalPercent formats an optional fraction as a percentage (0.0123 -> "1.23%"), or N/A.
func FormatOptionalPercent(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatPercent(*v * 100)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
