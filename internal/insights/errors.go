package insights

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput marks a request the user must correct.
var ErrInvalidInput = errors.New("invalid input")

// UserError carries the French message shown in the page banner alongside
// the underlying error used for status mapping.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func userError(err error, format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...), Err: err}
}

// Message returns the banner text for err.
func Message(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return "Une erreur inattendue est survenue. Réessayez plus tard."
}

func fetchFailed(symbol string, err error) *UserError {
	return userError(err, "Impossible de récupérer les données pour %s. Essayez un autre ticker (par exemple, AAPL ou MSFT).", symbol)
}

func joinSymbols(symbols []string) string {
	return strings.Join(symbols, ", ")
}
