package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/argentis/internal/common"
	"github.com/bobmcallan/argentis/internal/config"
	"github.com/bobmcallan/argentis/internal/insights"
	"github.com/bobmcallan/argentis/internal/models"
	"github.com/bobmcallan/argentis/internal/report"
)

// NavItem is one entry of the sidebar menu.
type NavItem struct {
	Path  string
	Page  string
	Label string
}

// Navigation lists the dashboard pages in menu order.
var Navigation = []NavItem{
	{"/", "home", "🏠 Accueil"},
	{"/evaluation", "evaluation", "📈 Évaluation d'un Actif"},
	{"/compare", "compare", "🔎 Comparateur d'Actifs"},
	{"/portfolio", "portfolio", "📚 Gestion de Portefeuille"},
	{"/forecast", "forecast", "🤖 Prévisions Machine Learning"},
	{"/sentiment", "sentiment", "📰 Sentiment & NLP"},
	{"/esg", "esg", "🌿 ESG & Durabilité"},
	{"/recommendations", "recommendations", "⭐ Recommandations Automatiques"},
	{"/risk", "risk", "⚡ Gestion Avancée des Risques"},
	{"/optimize", "optimize", "📊 Optimisation de Portefeuille"},
	{"/dashboard", "dashboard", "🎨 Dashboard Personnalisé"},
	{"/tracking", "tracking", "⏱️ Suivi Temps Réel du Portefeuille"},
	{"/export", "export", "📄 Export & Reporting"},
}

// Option is a select entry.
type Option struct {
	Value string
	Label string
}

var (
	chartPeriods = []Option{
		{"1d", "1 jour"}, {"5d", "5 jours"}, {"1mo", "1 mois"},
		{"6mo", "6 mois"}, {"1y", "1 an"}, {"5y", "5 ans"},
	}
	riskPeriods     = []Option{{"1mo", "1mo"}, {"3mo", "3mo"}, {"6mo", "6mo"}, {"1y", "1y"}}
	optimizePeriods = []Option{{"1y", "1y"}, {"2y", "2y"}, {"5y", "5y"}}
)

// PageData is passed to every page template.
type PageData struct {
	Page     string
	Title    string
	Nav      []NavItem
	Query    url.Values
	Error    string
	Warnings []string
	Notice   string
	Result   any
	Charts   map[string]*Chart
	Options  map[string]any
	Version  string
	Provider string
	Footer   string
	DevMode  bool
}

// PageHandler serves HTML pages rendered with Go templates.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
	insights  *insights.Service
	devMode   bool

	mcpPort    int
	mcpCatalog func() []MCPPageTool
}

// NewPageHandler creates a new page handler that loads templates from the pages directory.
func NewPageHandler(logger *common.Logger, svc *insights.Service, devMode bool) *PageHandler {
	pagesDir := FindPagesDir()

	templates := template.New("").Funcs(templateFuncs())
	template.Must(templates.ParseGlob(filepath.Join(pagesDir, "*.html")))
	template.Must(templates.ParseGlob(filepath.Join(pagesDir, "partials", "*.html")))

	return &PageHandler{
		logger:    logger,
		templates: templates,
		insights:  svc,
		devMode:   devMode,
	}
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		".",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

func (h *PageHandler) newPage(r *http.Request, page, title string) *PageData {
	return &PageData{
		Page:     page,
		Title:    title,
		Nav:      Navigation,
		Query:    r.URL.Query(),
		Charts:   make(map[string]*Chart),
		Options:  make(map[string]any),
		Version:  config.GetVersion(),
		Provider: h.insights.ProviderName(),
		Footer:   report.Footer,
		DevMode:  h.devMode,
	}
}

// fail records err on the page and returns the status to render with.
func (h *PageHandler) fail(data *PageData, err error) int {
	data.Error = insights.Message(err)
	status := StatusFor(err)
	if status >= http.StatusInternalServerError && h.logger != nil {
		h.logger.Error().Str("page", data.Page).Err(err).Msg("Page request failed")
	}
	return status
}

func (h *PageHandler) render(w http.ResponseWriter, status int, name string, data *PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		if h.logger != nil {
			h.logger.Error().Str("template", name).Str("error", err.Error()).Msg("failed to render page")
		}
	}
}

// StaticFileHandler serves static files (CSS, JS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	pagesDir := FindPagesDir()
	staticDir := filepath.Join(pagesDir, "static")

	// Remove /static/ prefix from URL path
	path := r.URL.Path[len("/static/"):]
	fullPath := filepath.Join(staticDir, path)

	// Security: prevent directory traversal
	absStaticDir, _ := filepath.Abs(staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if len(absFullPath) < len(absStaticDir) || absFullPath[:len(absStaticDir)] != absStaticDir {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"price":     common.FormatPrice,
		"money":     common.FormatMoney,
		"pct":       common.FormatPercent,
		"signedPct": common.FormatSignedPct,
		"ratio":     common.FormatRatio,
		"optPrice":  common.FormatOptionalPrice,
		"optPct":    common.FormatOptionalPercent,
		"fixed2":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"weightPct": func(w float64) string { return common.FormatPercent(w * 100) },
		"pctValue": func(v *float64) string {
			if v == nil {
				return common.NotAvailable
			}
			return common.FormatPercent(*v)
		},
		"millions": func(v *float64) string {
			if v == nil {
				return common.NotAvailable
			}
			return fmt.Sprintf("%.2f M$", *v)
		},
		"marketCap": func(v *float64) string {
			if v == nil {
				return common.NotAvailable
			}
			return common.FormatMarketCap(*v)
		},
		"range52": func(info *models.Info) string {
			if info == nil || info.FiftyTwoWeekLow == nil || info.FiftyTwoWeekHigh == nil {
				return common.NotAvailable
			}
			return fmt.Sprintf("%.2f - %.2f $", *info.FiftyTwoWeekLow, *info.FiftyTwoWeekHigh)
		},
		"date": func(t time.Time) string { return t.Format("02/01/2006") },
		"add":  func(a, b int) int { return a + b },
		"seq": func(from, to int) []int {
			var out []int
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
		"itoa": func(i int) string { return fmt.Sprint(i) },
		"sentimentClass": func(label string) string {
			switch label {
			case "Positif":
				return "positive"
			case "Négatif":
				return "negative"
			default:
				return ""
			}
		},
		"negative": func(v *float64) bool { return v != nil && *v < 0 },
		"selected": func(a, b string) bool { return a == b },
	}
}
