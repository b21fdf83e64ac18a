package app

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/config"
	"github.com/bobmcallan/argentis/internal/handlers"
	"github.com/bobmcallan/argentis/internal/insights"
	"github.com/bobmcallan/argentis/internal/interfaces"
	"github.com/bobmcallan/argentis/internal/market"
	"github.com/bobmcallan/argentis/internal/mcp"
	"github.com/bobmcallan/argentis/internal/report"
	"github.com/bobmcallan/argentis/internal/storage"
)

// catalogAdapter converts MCP catalog tools to MCP page display tools.
func catalogAdapter(mcpHandler *mcp.Handler) func() []handlers.MCPPageTool {
	return func() []handlers.MCPPageTool {
		if mcpHandler == nil {
			return nil
		}
		catalog := mcpHandler.Catalog()
		tools := make([]handlers.MCPPageTool, len(catalog))
		for i, ct := range catalog {
			params := make([]string, len(ct.Params))
			for j, p := range ct.Params {
				params[j] = p.Name
			}
			tools[i] = handlers.MCPPageTool{
				Name:        ct.Name,
				Description: ct.Description,
				Params:      params,
			}
		}
		return tools
	}
}

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Storage  interfaces.StorageManager
	Market   *market.Service
	Insights *insights.Service
	Reports  *report.Service

	// HTTP handlers
	PageHandler    *handlers.PageHandler
	APIHandler     *handlers.APIHandler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	// Validate environment setting
	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if env != "prod" && env != "dev" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	if err := a.initServices(); err != nil {
		a.Close()
		return nil, err
	}
	a.initHandlers()

	logger.Info().
		Str("provider", a.Market.ProviderName()).
		Str("badger_path", cfg.Storage.Badger.Path).
		Msg("application initialization complete")

	return a, nil
}

// initServices opens storage and builds the market, insights and report services.
func (a *App) initServices() error {
	store, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	a.Storage = store

	provider, err := market.NewProvider(&a.Config.Market, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create market provider: %w", err)
	}

	a.Market = market.NewService(provider, store.SnapshotStorage(), &a.Config.Market, a.Logger)
	a.Insights = insights.NewService(a.Market, store.KeyValueStorage(), &a.Config.Analytics, a.Logger)
	a.Reports = report.NewService(a.Logger.ILogger)
	return nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	devMode := !a.Config.IsProduction()

	a.PageHandler = handlers.NewPageHandler(a.Logger, a.Insights, devMode)
	a.APIHandler = handlers.NewAPIHandler(a.Logger, a.Insights, a.Reports)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Market.ProviderName())
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	a.MCPHandler = mcp.NewHandler(a.Insights, a.Logger)
	a.PageHandler.SetMCPCatalog(a.Config.Server.Port, catalogAdapter(a.MCPHandler))

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Storage == nil {
		return nil
	}
	err := a.Storage.Close()
	a.Storage = nil
	return err
}
