package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/argentis/internal/config"
	"github.com/bobmcallan/argentis/internal/insights"
)

// versionInfo holds the build fields reported by get_version.
type versionInfo struct {
	Version  string `json:"version"`
	Build    string `json:"build"`
	Commit   string `json:"commit"`
	Provider string `json:"provider"`
}

// VersionToolHandler returns a handler reporting the build and the market data provider.
func VersionToolHandler(svc *insights.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		build := config.GetBuildInfo()
		return jsonResult(versionInfo{
			Version:  build.Version,
			Build:    build.Build,
			Commit:   build.GitCommit,
			Provider: svc.ProviderName(),
		}), nil
	}
}
