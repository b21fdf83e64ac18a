package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/argentis/internal/analytics"
	"github.com/bobmcallan/argentis/internal/insights"
	"github.com/bobmcallan/argentis/internal/models"
)

// RegisterTools registers every catalog tool backed by svc and returns the count.
func RegisterTools(s *server.MCPServer, svc *insights.Service, catalog []CatalogTool) int {
	handlers := toolHandlers(svc)
	registered := 0
	for _, ct := range catalog {
		handler, ok := handlers[ct.Name]
		if !ok {
			continue
		}
		s.AddTool(BuildMCPTool(ct), handler)
		registered++
	}
	return registered
}

func toolHandlers(svc *insights.Service) map[string]server.ToolHandlerFunc {
	return map[string]server.ToolHandlerFunc{
		"get_version":        VersionToolHandler(svc),
		"get_ticker_summary": tickerSummaryHandler(svc),
		"get_valuation":      valuationHandler(svc),
		"compare_assets":     compareHandler(svc),
		"assess_risk":        riskHandler(svc),
		"optimize_portfolio": optimizeHandler(svc),
		"forecast_prices":    forecastHandler(svc),
		"score_sentiment":    sentimentHandler(svc),
		"recommend_stocks":   recommendHandler(svc),
	}
}

func tickerSummaryHandler(svc *insights.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := r.RequireString("symbol")
		if err != nil {
			return errorResult("Error: symbol parameter is required"), nil
		}
		period, bad := periodArg(r, models.Period1Y)
		if bad != nil {
			return bad, nil
		}
		summary, err := svc.TickerSummary(ctx, symbol, period)
		if err != nil {
			return failure(err), nil
		}
		return jsonResult(summary), nil
	}
}

func valuationHandler(svc *insights.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := r.RequireString("symbol")
		if err != nil {
			return errorResult("Error: symbol parameter is required"), nil
		}
		eval, err := svc.Evaluate(ctx, symbol)
		if err != nil {
			return failure(err), nil
		}
		return jsonResult(eval), nil
	}
}

func compareHandler(svc *insights.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		first := r.GetString("first", "")
		second := r.GetString("second", "")
		if first == "" || second == "" {
			return errorResult("Error: first and second parameters are required"), nil
		}
		period, bad := periodArg(r, models.Period1Y)
		if bad != nil {
			return bad, nil
		}
		cmp, err := svc.Compare(ctx, first, second, period)
		if err != nil {
			return failure(err), nil
		}
		return jsonResult(cmp), nil
	}
}

func riskHandler(svc *insights.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		period, bad := periodArg(r, models.Period1Y)
		if bad != nil {
			return bad, nil
		}
		risk, err := svc.AssessRisk(ctx, insights.RiskRequest{
			Symbols:    tickersArg(r),
			Period:     period,
			Confidence: r.GetInt("confidence", analytics.DefaultConfidence),
			Scenario:   analytics.Scenario(r.GetString("scenario", "")),
		})
		if err != nil {
			return failure(err), nil
		}
		return jsonResult(risk), nil
	}
}

func optimizeHandler(svc *insights.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		period, bad := periodArg(r, models.Period1Y)
		if bad != nil {
			return bad, nil
		}
		opt, err := svc.Optimize(ctx, insights.OptimizeRequest{
			Symbols:     tickersArg(r),
			Period:      period,
			Simulations: r.GetInt("simulations", 0),
		})
		if err != nil {
			return failure(err), nil
		}
		return jsonResult(opt), nil
	}
}

func forecastHandler(svc *insights.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := r.RequireString("symbol")
		if err != nil {
			return errorResult("Error: symbol parameter is required"), nil
		}
		days := r.GetInt("days", analytics.DefaultForecastDays)
		if days < analytics.MinForecastDays || days > analytics.MaxForecastDays {
			return errorResult("Error: days must be between 1 and 30"), nil
		}
		forecast, err := svc.Forecast(ctx, symbol, days)
		if err != nil {
			return failure(err), nil
		}
		return jsonResult(forecast), nil
	}
}

func sentimentHandler(svc *insights.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := r.RequireString("symbol")
		if err != nil {
			return errorResult("Error: symbol parameter is required"), nil
		}
		sentiment, err := svc.Sentiment(ctx, symbol)
		if err != nil {
			return failure(err), nil
		}
		return jsonResult(sentiment), nil
	}
}

func recommendHandler(svc *insights.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		recs, err := svc.Recommend(ctx, tickersArg(r), r.GetString("sort", analytics.SortScore))
		if err != nil {
			return failure(err), nil
		}
		return jsonResult(recs), nil
	}
}
