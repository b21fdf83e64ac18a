// Command argentis-check loads Argentis pages in headless Chrome and reports
// JavaScript errors, undrawn charts and failed selector assertions.
//
// Usage:
//
//	argentis-check
//	argentis-check -url http://localhost:8501 -page '/risk?tickers=AAPL,MSFT'
//	argentis-check -page / -check '.news-ticker|visible' -eval 'document.title.length > 0'
//	argentis-check -screenshots /tmp/argentis
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// multiFlag allows repeated -page, -check or -eval flags.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ", ") }
func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// defaultPages visits every dashboard page with sample input.
var defaultPages = []string{
	"/?ticker=AAPL",
	"/evaluation?ticker=AAPL",
	"/compare?c1=AAPL&c2=MSFT",
	"/portfolio?ticker_1=AAPL&weight_1=50&ticker_2=MSFT&weight_2=50&simulate=1",
	"/forecast?ticker=AAPL&days=7",
	"/sentiment?ticker=AAPL",
	"/esg?ticker=AAPL",
	"/recommendations?tickers=AAPL,MSFT,GOOGL",
	"/risk?tickers=AAPL,MSFT&confidence=95",
	"/optimize?tickers=AAPL,MSFT&simulations=1000",
	"/dashboard?tickers=AAPL,MSFT",
	"/tracking?tickers=AAPL,MSFT",
	"/export?tickers=AAPL,MSFT",
	"/mcp-info",
}

func main() {
	var (
		baseURL     string
		screenshots string
		waitMs      int
		timeout     time.Duration
		pages       multiFlag
		checks      multiFlag
		evals       multiFlag
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8501", "Argentis base URL")
	flag.StringVar(&screenshots, "screenshots", "", "Directory to save one screenshot per page")
	flag.IntVar(&waitMs, "wait", 1500, "Wait ms after load for chart rendering")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout per page (market fetches retry)")
	flag.Var(&pages, "page", "Page path with query (repeatable, default: every page)")
	flag.Var(&checks, "check", "selector|state  (state: visible, hidden, exists, text=X, count>N)")
	flag.Var(&evals, "eval", "JS expression that must return truthy")
	flag.Parse()

	if len(pages) == 0 {
		pages = defaultPages
	}
	if screenshots != "" {
		if err := os.MkdirAll(screenshots, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(2)
		}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	failed, total := 0, 0
	for i, page := range pages {
		url := strings.TrimRight(baseURL, "/") + page
		shot := ""
		if screenshots != "" {
			shot = filepath.Join(screenshots, fmt.Sprintf("%02d.png", i+1))
		}

		results := checkPage(browserCtx, url, waitMs, timeout, checks, evals, shot)

		fmt.Printf("\n%s\n", url)
		for _, r := range results {
			icon := "✓"
			if !r.pass {
				icon = "✗"
				failed++
			}
			total++
			fmt.Printf("  %s %s: %s\n", icon, r.name, r.detail)
		}
	}

	fmt.Printf("\n  %d/%d passed\n", total-failed, total)
	if failed > 0 {
		os.Exit(1)
	}
}

// checkPage opens url in a new tab and runs the standard and requested checks.
func checkPage(browserCtx context.Context, url string, waitMs int, timeout time.Duration, checks, evals []string, screenshot string) []result {
	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()
	ctx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	var (
		jsErrors []string
		jsMu     sync.Mutex
	)

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		jsMu.Lock()
		defer jsMu.Unlock()

		switch e := ev.(type) {
		case *runtime.EventExceptionThrown:
			desc := e.ExceptionDetails.Text
			if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
				desc = e.ExceptionDetails.Exception.Description
			}
			jsErrors = append(jsErrors, desc)
		case *runtime.EventConsoleAPICalled:
			if e.Type == runtime.APITypeError {
				var parts []string
				for _, arg := range e.Args {
					if arg.Value != nil {
						parts = append(parts, string(arg.Value))
					} else if arg.Description != "" {
						parts = append(parts, arg.Description)
					}
				}
				msg := strings.Join(parts, " ")
				if msg != "" && !strings.Contains(msg, "favicon") {
					jsErrors = append(jsErrors, msg)
				}
			}
		}
	})

	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(time.Duration(waitMs)*time.Millisecond),
	)
	if err != nil {
		return []result{{name: "navigate", pass: false, detail: err.Error()}}
	}

	var results []result

	var alert string
	if err := chromedp.Run(ctx, chromedp.Evaluate(`(() => { const el = document.querySelector('.alert-error'); return el ? el.textContent.trim() : ''; })()`, &alert)); err == nil {
		results = append(results, result{name: "error-banner", pass: alert == "", detail: nonEmpty(alert, "none")})
	}

	jsMu.Lock()
	results = append(results, result{name: "js-errors", pass: len(jsErrors) == 0, detail: nonEmpty(strings.Join(jsErrors, "; "), "none")})
	jsMu.Unlock()

	results = append(results, checkCharts(ctx))

	for _, c := range checks {
		parts := strings.SplitN(c, "|", 2)
		if len(parts) != 2 {
			results = append(results, result{name: c, pass: false, detail: "bad format, need selector|state"})
			continue
		}
		results = append(results, runCheck(ctx, parts[0], parts[1]))
	}

	for _, expr := range evals {
		name := fmt.Sprintf("eval(%s)", truncate(expr, 50))
		var val interface{}
		if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &val)); err != nil {
			results = append(results, result{name: name, pass: false, detail: err.Error()})
			continue
		}
		results = append(results, result{name: name, pass: isTruthy(val), detail: fmt.Sprintf("returned: %v", val)})
	}

	if screenshot != "" {
		var buf []byte
		if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
			fmt.Fprintf(os.Stderr, "WARN: screenshot failed: %v\n", err)
		} else if err := os.WriteFile(screenshot, buf, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "WARN: screenshot not saved: %v\n", err)
		}
	}

	return results
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
