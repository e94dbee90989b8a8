package greeks

import "errors"

var (
	ErrInvalidInput    = errors.New("spot and strike must be positive")
	ErrDegenerateInput = errors.New("zero time-to-expiry or non-positive volatility")
	ErrNoConvergence   = errors.New("implied volatility solve did not converge")
)
