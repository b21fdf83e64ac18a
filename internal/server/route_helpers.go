package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/bobmcallan/argentis/internal/handlers"
)

// MethodRouter maps HTTP methods to handlers.
type MethodRouter map[string]http.HandlerFunc

// RouteByMethod dispatches on the request method. HEAD falls back to the GET
// handler; anything else unrouted gets a JSON 405 with an Allow header.
func RouteByMethod(w http.ResponseWriter, r *http.Request, routes MethodRouter) {
	handler, ok := routes[r.Method]
	if !ok && r.Method == http.MethodHead {
		handler, ok = routes[http.MethodGet]
	}
	if !ok {
		w.Header().Set("Allow", routes.allow())
		handlers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	handler(w, r)
}

func (m MethodRouter) allow() string {
	methods := make([]string, 0, len(m)+1)
	for method := range m {
		methods = append(methods, method)
	}
	if _, ok := m[http.MethodGet]; ok {
		if _, ok := m[http.MethodHead]; !ok {
			methods = append(methods, http.MethodHead)
		}
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}

// RouteCachedResource serves a cached market resource: GET and HEAD read it,
// DELETE drops the cached copy so the next read refetches.
func RouteCachedResource(w http.ResponseWriter, r *http.Request, get, refresh http.HandlerFunc) {
	routes := make(MethodRouter)
	if get != nil {
		routes[http.MethodGet] = get
	}
	if refresh != nil {
		routes[http.MethodDelete] = refresh
	}
	RouteByMethod(w, r, routes)
}
