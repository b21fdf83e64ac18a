package handlers

import (
	"net/http"

	"github.com/bobmcallan/argentis/internal/common"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger   *common.Logger
	provider string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger, provider string) *HealthHandler {
	return &HealthHandler{logger: logger, provider: provider}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": h.provider,
	})
}
