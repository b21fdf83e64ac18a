package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chromedp/chromedp"
)

type result struct {
	name   string
	pass   bool
	detail string
}

// runCheck evaluates a selector|state assertion.
func runCheck(ctx context.Context, sel, state string) result {
	name := fmt.Sprintf("check(%s|%s)", sel, state)

	switch {
	case state == "hidden", state == "visible":
		var visible bool
		err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(`
			(() => {
				const el = document.querySelector('%s');
				if (!el) return false;
				return getComputedStyle(el).display !== 'none';
			})()
		`, escJS(sel)), &visible))
		if err != nil {
			return result{name: name, pass: false, detail: err.Error()}
		}
		return result{name: name, pass: visible == (state == "visible"), detail: fmt.Sprintf("visible=%v", visible)}

	case state == "exists":
		var exists bool
		err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(`document.querySelector('%s') !== null`, escJS(sel)), &exists))
		if err != nil {
			return result{name: name, pass: false, detail: err.Error()}
		}
		return result{name: name, pass: exists, detail: fmt.Sprintf("exists=%v", exists)}

	case strings.HasPrefix(state, "text="):
		expected := state[5:]
		var actual string
		err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(`
			(() => {
				const el = document.querySelector('%s');
				return el ? el.textContent.trim() : '';
			})()
		`, escJS(sel)), &actual))
		if err != nil {
			return result{name: name, pass: false, detail: err.Error()}
		}
		return result{name: name, pass: strings.Contains(actual, expected), detail: fmt.Sprintf("got: %s", truncate(actual, 60))}

	case strings.HasPrefix(state, "count"):
		var count int
		err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(`document.querySelectorAll('%s').length`, escJS(sel)), &count))
		if err != nil {
			return result{name: name, pass: false, detail: err.Error()}
		}
		return result{name: name, pass: evalCountExpr(state, count), detail: fmt.Sprintf("count=%d", count)}

	default:
		return result{name: name, pass: false, detail: fmt.Sprintf("unknown state: %s", state)}
	}
}

// checkCharts verifies every embedded chart payload produced a drawn canvas.
func checkCharts(ctx context.Context) result {
	var counts struct {
		Payloads int `json:"payloads"`
		Drawn    int `json:"drawn"`
	}
	err := chromedp.Run(ctx, chromedp.Evaluate(`
		(() => {
			const payloads = document.querySelectorAll('.chart .chart-data').length;
			let drawn = 0;
			document.querySelectorAll('.chart canvas').forEach(c => {
				if (window.Chart && Chart.getChart(c)) drawn++;
			});
			return {payloads, drawn};
		})()
	`, &counts))
	if err != nil {
		return result{name: "charts", pass: false, detail: err.Error()}
	}
	return result{
		name:   "charts",
		pass:   counts.Drawn == counts.Payloads,
		detail: fmt.Sprintf("%d/%d drawn", counts.Drawn, counts.Payloads),
	}
}

// evalCountExpr handles count>N, count>=N, count=N, count<N, count<=N.
func evalCountExpr(expr string, actual int) bool {
	expr = strings.TrimPrefix(expr, "count")
	for _, op := range []string{">=", "<=", ">", "<", "="} {
		if !strings.HasPrefix(expr, op) {
			continue
		}
		n, err := strconv.Atoi(expr[len(op):])
		if err != nil {
			return false
		}
		switch op {
		case ">=":
			return actual >= n
		case "<=":
			return actual <= n
		case ">":
			return actual > n
		case "<":
			return actual < n
		default:
			return actual == n
		}
	}
	return false
}

func escJS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func isTruthy(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case nil:
		return false
	default:
		return true
	}
}
