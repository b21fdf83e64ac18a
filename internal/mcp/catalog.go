package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// CatalogTool describes one tool exposed on the MCP endpoint.
type CatalogTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Params      []CatalogParam `json:"params"`
}

// CatalogParam describes one parameter for a catalog tool.
type CatalogParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // string, number, array
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

var (
	symbolParam  = CatalogParam{Name: "symbol", Type: "string", Description: "Ticker symbol, for example AAPL", Required: true}
	tickersParam = CatalogParam{Name: "tickers", Type: "array", Description: "Ticker symbols", Required: true}
	periodParam  = CatalogParam{Name: "period", Type: "string", Description: "History period: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y or 5y"}
)

// Catalog lists every tool in registration order.
func Catalog() []CatalogTool {
	return []CatalogTool{
		{
			Name:        "get_version",
			Description: "Get the Argentis server version and market data provider. Use this to verify connectivity.",
		},
		{
			Name:        "get_ticker_summary",
			Description: "Get the current price, market cap, 52-week range and technical indicators for a ticker.",
			Params:      []CatalogParam{symbolParam, periodParam},
		},
		{
			Name:        "get_valuation",
			Description: "Get WACC, discounted cash flow value and financial ratios for a ticker.",
			Params:      []CatalogParam{symbolParam},
		},
		{
			Name:        "compare_assets",
			Description: "Compare the price history, volatility and ratios of two tickers.",
			Params: []CatalogParam{
				{Name: "first", Type: "string", Description: "First ticker symbol", Required: true},
				{Name: "second", Type: "string", Description: "Second ticker symbol", Required: true},
				periodParam,
			},
		},
		{
			Name:        "assess_risk",
			Description: "Compute historical VaR and CVaR over 1, 5 and 10 days, with an optional stress scenario.",
			Params: []CatalogParam{
				tickersParam,
				periodParam,
				{Name: "confidence", Type: "number", Description: "Confidence level in percent, 90 to 99 (default 95)"},
				{Name: "scenario", Type: "string", Description: "Stress scenario: crash, rally or volatility (default crash)"},
			},
		},
		{
			Name:        "optimize_portfolio",
			Description: "Search random portfolios for the best ratio of annualised return to volatility.",
			Params: []CatalogParam{
				tickersParam,
				periodParam,
				{Name: "simulations", Type: "number", Description: "Number of random portfolios, 1000 to 10000"},
			},
		},
		{
			Name:        "forecast_prices",
			Description: "Forecast daily closing prices with ARIMA(1,1,1) and a trend plus weekly seasonality model.",
			Params: []CatalogParam{
				symbolParam,
				{Name: "days", Type: "number", Description: "Forecast horizon in days, 1 to 30 (default 7)"},
			},
		},
		{
			Name:        "score_sentiment",
			Description: "Score recent news headlines for a ticker as positive, negative or neutral.",
			Params:      []CatalogParam{symbolParam},
		},
		{
			Name:        "recommend_stocks",
			Description: "Score tickers from their P/E ratio and earnings growth and sort them.",
			Params: []CatalogParam{
				tickersParam,
				{Name: "sort", Type: "string", Description: "Sort key: Score, P/E or Croissance"},
			},
		},
	}
}

// BuildMCPTool converts a CatalogTool into an mcp.Tool with the appropriate schema.
func BuildMCPTool(ct CatalogTool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(ct.Description)}
	for _, p := range ct.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(ct.Name, opts...)
}

// buildParamOption maps a CatalogParam to the appropriate mcp-go tool option.
func buildParamOption(p CatalogParam) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case "number":
		return mcp.WithNumber(p.Name, opts...)
	case "array":
		opts = append([]mcp.PropertyOption{mcp.WithStringItems()}, opts...)
		return mcp.WithArray(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}
