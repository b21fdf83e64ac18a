package handlers

import (
	"fmt"
	"net/http"
)

// MCPPageTool holds display-only fields for a tool on the MCP page.
type MCPPageTool struct {
	Name        string
	Description string
	Params      []string
}

// MCPView is the MCP page result.
type MCPView struct {
	Endpoint   string
	Tools      []MCPPageTool
	ToolStatus string
}

// SetMCPCatalog sets the function listing the MCP tools and the port shown on the MCP page.
func (h *PageHandler) SetMCPCatalog(port int, fn func() []MCPPageTool) {
	h.mcpPort = port
	h.mcpCatalog = fn
}

// ServeMCP handles GET /mcp-info, showing connection details and tools.
func (h *PageHandler) ServeMCP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := h.newPage(r, "mcp", "🔌 Outils MCP")

	var tools []MCPPageTool
	if h.mcpCatalog != nil {
		tools = h.mcpCatalog()
	}

	view := &MCPView{
		Endpoint:   fmt.Sprintf("http://localhost:%d/mcp", h.mcpPort),
		Tools:      tools,
		ToolStatus: "AUCUN OUTIL",
	}
	if len(tools) > 0 {
		view.ToolStatus = fmt.Sprintf("%d", len(tools))
	}
	data.Result = view

	h.render(w, http.StatusOK, "mcp.html", data)
}
