package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	pages := s.app.PageHandler
	api := s.app.APIHandler

	// UI page routes (HTML templates)
	mux.HandleFunc("/", pages.ServeHome)
	mux.HandleFunc("/evaluation", pages.ServeEvaluation)
	mux.HandleFunc("/compare", pages.ServeCompare)
	mux.HandleFunc("/portfolio", pages.ServePortfolio)
	mux.HandleFunc("/forecast", pages.ServeForecast)
	mux.HandleFunc("/sentiment", pages.ServeSentiment)
	mux.HandleFunc("/esg", pages.ServeESG)
	mux.HandleFunc("/recommendations", pages.ServeRecommendations)
	mux.HandleFunc("/risk", pages.ServeRisk)
	mux.HandleFunc("/optimize", pages.ServeOptimize)
	mux.HandleFunc("/dashboard", pages.ServeDashboard)
	mux.HandleFunc("/tracking", pages.ServeTracking)
	mux.HandleFunc("/export", pages.ServeExport)
	mux.HandleFunc("/mcp-info", pages.ServeMCP)

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", pages.StaticFileHandler)

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	mux.HandleFunc("/api/ticker/", func(w http.ResponseWriter, r *http.Request) {
		RouteCachedResource(w, r, api.GetTicker, api.RefreshTicker)
	})
	mux.HandleFunc("/api/history/", api.GetHistory)
	mux.HandleFunc("/api/valuation/", api.GetValuation)
	mux.HandleFunc("/api/compare", api.GetCompare)
	mux.HandleFunc("/api/portfolio/simulate", api.SimulatePortfolio)
	mux.HandleFunc("/api/forecast/", api.GetForecast)
	mux.HandleFunc("/api/sentiment/", api.GetSentiment)
	mux.HandleFunc("/api/esg/", api.GetESG)
	mux.HandleFunc("/api/recommendations", api.GetRecommendations)
	mux.HandleFunc("/api/risk", api.GetRisk)
	mux.HandleFunc("/api/optimize", api.GetOptimize)
	mux.HandleFunc("/api/dashboard", api.GetDashboard)
	mux.HandleFunc("/api/tracking", api.GetTracking)
	mux.HandleFunc("/api/export.csv", api.ExportCSV)
	mux.HandleFunc("/api/export.pdf", api.ExportPDF)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
