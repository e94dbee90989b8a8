package gex

import (
	"time"

	"github.com/dgnsrekt/gexlab/internal/greeks"
)

const yearSeconds = 365.0 * 24 * 3600

// minYearsToExpiry floors time-to-expiry at five minutes so sigma*sqrt(T)
// stays numerically sane for live 0DTE contracts near the close.
const minYearsToExpiry = 5.0 / (365.0 * 24 * 60)

// YearsToExpiry returns the time between asOf and expiry in years. Expired
// contracts yield a non-positive value.
func YearsToExpiry(asOf, expiry time.Time) float64 {
	return expiry.Sub(asOf).Seconds() / yearSeconds
}

// ResolveGamma converges both quote variants onto the same engine call:
// a vendor-supplied gamma column is used as-is, an implied volatility is
// run through the Black-Scholes gamma, and a bare last price is first
// solved for volatility. Contracts already past expiry carry no convexity
// and resolve to zero.
func ResolveGamma(q OptionQuote, mkt MarketContext) (float64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	if q.Gamma != nil {
		return *q.Gamma, nil
	}

	t := YearsToExpiry(mkt.AsOf, q.Expiry)
	if t <= 0 {
		return 0, nil
	}
	if t < minYearsToExpiry {
		t = minYearsToExpiry
	}

	iv, err := resolveIV(q, mkt, t)
	if err != nil {
		return 0, err
	}
	return greeks.Gamma(mkt.Spot, q.Strike, mkt.RiskFreeRate, iv, t)
}

func resolveIV(q OptionQuote, mkt MarketContext, t float64) (float64, error) {
	if q.IV != nil {
		return *q.IV, nil
	}
	return greeks.ImpliedVolatility(*q.LastPrice, mkt.Spot, q.Strike, mkt.RiskFreeRate, t, q.Type)
}
