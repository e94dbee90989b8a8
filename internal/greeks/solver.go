package greeks

import (
	"fmt"
	"math"
)

// Implied volatility search parameters. The bracket spans everything from
// deep-carry quotes to meme-stock weeklies; prices that imply a volatility
// outside it violate no-arbitrage bounds and fail fast.
const (
	ivBracketLow  = 1e-4
	ivBracketHigh = 5.0
	ivMaxIter     = 100
	ivTolerance   = 1e-6
)

const machineEpsilon = 2.220446049250313e-16

// ImpliedVolatility recovers the volatility at which the Black-Scholes
// price of the option equals observed, using Brent's method on
// price(sigma) - observed over [1e-4, 5.0]. It verifies the bracket
// contains a sign change before iterating and returns ErrNoConvergence
// otherwise or when the iteration budget is exhausted.
func ImpliedVolatility(observed, s, k, r, t float64, typ OptionType) (float64, error) {
	if observed <= 0 {
		return 0, fmt.Errorf("observed price %v: %w", observed, ErrInvalidInput)
	}
	// Validate the fixed inputs once so the objective below is total.
	if err := validate(s, k, ivBracketLow, t); err != nil {
		return 0, err
	}

	objective := func(sigma float64) float64 {
		p, _ := Price(s, k, r, sigma, t, typ)
		return p - observed
	}

	sigma, err := brent(objective, ivBracketLow, ivBracketHigh, ivTolerance, ivMaxIter)
	if err != nil {
		return 0, fmt.Errorf("strike %v observed %v: %w", k, observed, err)
	}
	return sigma, nil
}

// brent finds a root of f in [a, b] using inverse quadratic interpolation
// with bisection fallback. The interval must bracket a sign change.
func brent(f func(float64) float64, a, b, tol float64, maxIter int) (float64, error) {
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if (fa > 0) == (fb > 0) {
		return 0, fmt.Errorf("no sign change in [%v, %v]: %w", a, b, ErrNoConvergence)
	}

	c, fc := a, fa
	d := b - a
	e := d

	for i := 0; i < maxIter; i++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*machineEpsilon*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Attempt inverse quadratic interpolation.
			var p, q float64
			sr := fb / fa
			if a == c {
				p = 2 * xm * sr
				q = 1 - sr
			} else {
				q = fa / fc
				rr := fb / fc
				p = sr * (2*xm*q*(q-rr) - (b-a)*(rr-1))
				q = (q - 1) * (rr - 1) * (sr - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}

	return 0, fmt.Errorf("iteration budget %d exhausted: %w", maxIter, ErrNoConvergence)
}
