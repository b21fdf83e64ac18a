package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/argentis/internal/analytics"
	"github.com/bobmcallan/argentis/internal/insights"
	"github.com/bobmcallan/argentis/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// StatusFor maps a service error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, insights.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrTickerNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoData),
		errors.Is(err, models.ErrNotSupported),
		errors.Is(err, analytics.ErrInsufficientData),
		errors.Is(err, analytics.ErrInvalidRates):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeFailure writes a service error as a JSON error response.
func writeFailure(w http.ResponseWriter, err error) {
	WriteError(w, StatusFor(err), insights.Message(err))
}

// queryInt parses an integer query parameter, returning 0 when absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &insights.UserError{Message: "Paramètre " + name + " invalide : " + raw, Err: insights.ErrInvalidInput}
	}
	return n, nil
}

// queryPeriod parses the period query parameter.
func queryPeriod(r *http.Request, fallback models.Period) (models.Period, error) {
	p, err := models.ParsePeriod(r.URL.Query().Get("period"), fallback)
	if err != nil {
		return "", &insights.UserError{Message: "Période inconnue : " + r.URL.Query().Get("period"), Err: insights.ErrInvalidInput}
	}
	return p, nil
}

// queryTickers parses the comma separated tickers query parameter.
func queryTickers(r *http.Request) []string {
	return models.ParseSymbols(r.URL.Query().Get("tickers"))
}
