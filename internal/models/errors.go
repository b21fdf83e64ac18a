package models

import "errors"

var (
	// ErrTickerNotFound is returned when the provider does not know the symbol.
	ErrTickerNotFound = errors.New("ticker not found")
	// ErrNoData is returned when a provider answered but with fewer than two usable bars.
	ErrNoData = errors.New("no usable data")
	// ErrProviderUnavailable is returned once retries are exhausted.
	ErrProviderUnavailable = errors.New("market data provider unavailable")
	// ErrNotSupported is returned by providers that cannot serve a dataset.
	ErrNotSupported = errors.New("not supported by provider")
)
