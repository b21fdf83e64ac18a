package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/argentis/internal/insights"
	"github.com/bobmcallan/argentis/internal/models"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// failure turns a service error into an MCP error result carrying the user message.
func failure(err error) *mcp.CallToolResult {
	return errorResult("Error: " + insights.Message(err))
}

// jsonResult marshals v as the text content of a successful result.
func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal result")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}
}

// tickersArg reads the tickers argument, accepting an array or a comma separated string.
func tickersArg(r mcp.CallToolRequest) []string {
	if list := r.GetStringSlice("tickers", nil); len(list) > 0 {
		return models.ParseSymbols(strings.Join(list, ","))
	}
	return models.ParseSymbols(r.GetString("tickers", ""))
}

// periodArg reads the optional period argument.
func periodArg(r mcp.CallToolRequest, fallback models.Period) (models.Period, *mcp.CallToolResult) {
	raw := r.GetString("period", "")
	p, err := models.ParsePeriod(raw, fallback)
	if err != nil {
		return "", errorResult("Error: unsupported period " + raw)
	}
	return p, nil
}
