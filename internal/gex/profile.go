package gex

import (
	"fmt"
	"sort"
	"time"

	"github.com/dgnsrekt/gexlab/internal/greeks"
)

// GreekKind selects which greek drives a per-strike exposure profile.
type GreekKind string

const (
	GammaKind GreekKind = "gamma"
	VannaKind GreekKind = "vanna"
	CharmKind GreekKind = "charm"
)

// GreekProfile buckets signed exposure of the chosen greek by strike over
// the inclusive window. Gamma comes straight from quote resolution. Vanna
// and charm are estimated as the finite-difference gradient of vega and
// theta across the strike axis, computed per (expiry, type) group so
// strikes within a group are unique. Rows that cannot supply the greek are
// skipped and counted.
func GreekProfile(quotes []OptionQuote, mkt MarketContext, win ExposureWindow, kind GreekKind) ([]StrikeExposure, int, error) {
	if err := mkt.Validate(); err != nil {
		return nil, 0, err
	}
	if err := win.Validate(); err != nil {
		return nil, 0, err
	}

	var values []float64
	var kept []OptionQuote
	var skipped int
	var err error

	switch kind {
	case GammaKind:
		for _, q := range quotes {
			gamma, rerr := ResolveGamma(q, mkt)
			if rerr != nil {
				skipped++
				continue
			}
			kept = append(kept, q)
			values = append(values, gamma)
		}
	case VannaKind, CharmKind:
		kept, values, skipped, err = gradientGreek(quotes, mkt, kind)
		if err != nil {
			return nil, 0, err
		}
	default:
		return nil, 0, fmt.Errorf("greek kind %q: %w", kind, greeks.ErrInvalidInput)
	}

	sums := make(map[float64]float64)
	for i, q := range kept {
		if !inWindow(q.Strike, mkt.Spot, win.StrikeWidth) {
			continue
		}
		exposure := values[i] * float64(q.OpenInterest) * mkt.Spot * mkt.Spot *
			float64(win.Multiplier) * win.GammaScale
		if q.Type == greeks.Put {
			exposure = -exposure
		}
		sums[q.Strike] += exposure
	}

	levels := make([]StrikeExposure, 0, len(sums))
	for strike, net := range sums {
		levels = append(levels, StrikeExposure{Strike: strike, Net: net})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Strike < levels[j].Strike })
	return levels, skipped, nil
}

type groupKey struct {
	expiry time.Time
	put    bool
}

// gradientGreek computes vanna (d vega / d strike) or charm
// (d theta / d strike) by centered differences along the strike axis.
func gradientGreek(quotes []OptionQuote, mkt MarketContext, kind GreekKind) ([]OptionQuote, []float64, int, error) {
	groups := make(map[groupKey][]OptionQuote)
	var skipped int
	for _, q := range quotes {
		if err := q.Validate(); err != nil || (q.IV == nil && q.LastPrice == nil) {
			skipped++
			continue
		}
		key := groupKey{expiry: q.Expiry, put: q.Type == greeks.Put}
		groups[key] = append(groups[key], q)
	}

	var kept []OptionQuote
	var values []float64
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].Strike < group[j].Strike })

		base := make([]float64, 0, len(group))
		rows := make([]OptionQuote, 0, len(group))
		for _, q := range group {
			years := YearsToExpiry(mkt.AsOf, q.Expiry)
			if years <= 0 {
				skipped++
				continue
			}
			if years < minYearsToExpiry {
				years = minYearsToExpiry
			}
			iv, err := resolveIV(q, mkt, years)
			if err != nil {
				skipped++
				continue
			}
			var v float64
			if kind == VannaKind {
				v, err = greeks.Vega(mkt.Spot, q.Strike, mkt.RiskFreeRate, iv, years)
			} else {
				v, err = greeks.Theta(mkt.Spot, q.Strike, mkt.RiskFreeRate, iv, years, q.Type)
			}
			if err != nil {
				skipped++
				continue
			}
			base = append(base, v)
			rows = append(rows, q)
		}

		grad := strikeGradient(rows, base)
		kept = append(kept, rows...)
		values = append(values, grad...)
	}
	return kept, values, skipped, nil
}

// strikeGradient mirrors numpy.gradient over unevenly spaced strikes:
// centered differences inside, one-sided at the edges.
func strikeGradient(rows []OptionQuote, y []float64) []float64 {
	n := len(rows)
	grad := make([]float64, n)
	if n < 2 {
		return grad
	}
	grad[0] = (y[1] - y[0]) / (rows[1].Strike - rows[0].Strike)
	grad[n-1] = (y[n-1] - y[n-2]) / (rows[n-1].Strike - rows[n-2].Strike)
	for i := 1; i < n-1; i++ {
		grad[i] = (y[i+1] - y[i-1]) / (rows[i+1].Strike - rows[i-1].Strike)
	}
	return grad
}
