// Package greeks implements Black-Scholes pricing and Greek evaluation for
// European options. All functions are pure and safe for concurrent use.
package greeks

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// OptionType distinguishes the two contract legs of a chain.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// ParseOptionType normalizes a raw contract type string.
func ParseOptionType(s string) (OptionType, error) {
	switch OptionType(s) {
	case Call, "call", "Call", "C":
		return Call, nil
	case Put, "put", "Put", "P":
		return Put, nil
	}
	return "", fmt.Errorf("unknown option type %q: %w", s, ErrInvalidInput)
}

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

func validate(s, k, sigma, t float64) error {
	if s <= 0 || k <= 0 {
		return fmt.Errorf("spot=%v strike=%v: %w", s, k, ErrInvalidInput)
	}
	if t <= 0 || sigma <= 0 {
		return fmt.Errorf("sigma=%v t=%v: %w", sigma, t, ErrDegenerateInput)
	}
	return nil
}

// D1D2 returns the standard Black-Scholes d1 and d2 terms.
// Time t is expressed in years.
func D1D2(s, k, r, sigma, t float64) (float64, float64, error) {
	if err := validate(s, k, sigma, t); err != nil {
		return 0, 0, err
	}
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	return d1, d1 - sigma*sqrtT, nil
}

// Price returns the Black-Scholes price for a European option.
func Price(s, k, r, sigma, t float64, typ OptionType) (float64, error) {
	d1, d2, err := D1D2(s, k, r, sigma, t)
	if err != nil {
		return 0, err
	}
	discount := math.Exp(-r * t)
	if typ == Call {
		return s*stdNormal.CDF(d1) - k*discount*stdNormal.CDF(d2), nil
	}
	return k*discount*stdNormal.CDF(-d2) - s*stdNormal.CDF(-d1), nil
}

// Delta returns the option delta: Phi(d1) for calls, Phi(d1)-1 for puts.
func Delta(s, k, r, sigma, t float64, typ OptionType) (float64, error) {
	d1, _, err := D1D2(s, k, r, sigma, t)
	if err != nil {
		return 0, err
	}
	if typ == Call {
		return stdNormal.CDF(d1), nil
	}
	return stdNormal.CDF(d1) - 1, nil
}

// Gamma returns the option gamma, identical for calls and puts and
// non-negative for all valid inputs. Dealer sign conventions are applied
// downstream, never here.
func Gamma(s, k, r, sigma, t float64) (float64, error) {
	d1, _, err := D1D2(s, k, r, sigma, t)
	if err != nil {
		return 0, err
	}
	return stdNormal.Prob(d1) / (s * sigma * math.Sqrt(t)), nil
}

// Vega returns the sensitivity of the option price to a one-point move in
// volatility, identical for calls and puts.
func Vega(s, k, r, sigma, t float64) (float64, error) {
	d1, _, err := D1D2(s, k, r, sigma, t)
	if err != nil {
		return 0, err
	}
	return s * stdNormal.Prob(d1) * math.Sqrt(t), nil
}

// Theta returns the per-year time decay of the option price.
func Theta(s, k, r, sigma, t float64, typ OptionType) (float64, error) {
	d1, d2, err := D1D2(s, k, r, sigma, t)
	if err != nil {
		return 0, err
	}
	decay := -(s * stdNormal.Prob(d1) * sigma) / (2 * math.Sqrt(t))
	carry := r * k * math.Exp(-r*t)
	if typ == Call {
		return decay - carry*stdNormal.CDF(d2), nil
	}
	return decay + carry*stdNormal.CDF(-d2), nil
}
