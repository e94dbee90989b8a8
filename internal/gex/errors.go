package gex

import "errors"

var (
	// ErrInvalidQuote marks a chain row carrying neither a pre-computed
	// gamma, an implied volatility, nor a last price to solve one from.
	ErrInvalidQuote = errors.New("quote has no gamma, implied volatility, or last price")

	// ErrInvalidSpot is fatal for a whole pass: no aggregate is meaningful
	// without a valid underlying price.
	ErrInvalidSpot = errors.New("market context spot must be positive")

	// ErrEmptyWindow is returned when an aggregation window holds no
	// qualifying gamma mass on either side of spot.
	ErrEmptyWindow = errors.New("no qualifying rows in strike window")

	ErrInvalidWindow = errors.New("exposure window parameters must be positive")
	ErrInvalidGrid   = errors.New("grid range and step must be positive")
)
