// Package gex computes dealer gamma-exposure metrics from an options-chain
// snapshot: gross/net GEX, directional gamma imbalance, the zero gamma
// level, and per-strike exposure buckets.
//
// Every computation runs as a discrete pass over an immutable snapshot
// (MarketContext plus a quote collection). Per-row failures are isolated
// into skip counts so one malformed quote never blanks an aggregate.
package gex

import (
	"fmt"
	"time"

	"github.com/dgnsrekt/gexlab/internal/greeks"
)

// OptionQuote is one leg of an options chain. Gamma, IV and LastPrice are
// optional columns; at least one of them must be present for the row to
// resolve to a gamma value.
type OptionQuote struct {
	Strike       float64
	Type         greeks.OptionType
	OpenInterest int64
	Expiry       time.Time

	// IV is the implied volatility as a decimal (0.20 = 20%).
	IV *float64
	// Gamma is a pre-computed per-$1-move gamma from the data vendor.
	Gamma *float64
	// LastPrice allows solving IV when neither column is present.
	LastPrice *float64
}

// Validate enforces the ingestion invariants: positive strike, non-negative
// open interest, and a resolvable gamma variant.
func (q OptionQuote) Validate() error {
	if q.Strike <= 0 {
		return fmt.Errorf("strike %v: %w", q.Strike, greeks.ErrInvalidInput)
	}
	if q.OpenInterest < 0 {
		return fmt.Errorf("open interest %d: %w", q.OpenInterest, greeks.ErrInvalidInput)
	}
	if q.Type != greeks.Call && q.Type != greeks.Put {
		return fmt.Errorf("option type %q: %w", q.Type, greeks.ErrInvalidInput)
	}
	if q.Gamma == nil && q.IV == nil && q.LastPrice == nil {
		return ErrInvalidQuote
	}
	if q.Gamma != nil && *q.Gamma < 0 {
		return fmt.Errorf("gamma %v: %w", *q.Gamma, greeks.ErrInvalidInput)
	}
	if q.IV != nil && *q.IV <= 0 {
		return fmt.Errorf("implied volatility %v: %w", *q.IV, greeks.ErrInvalidInput)
	}
	return nil
}

// MarketContext is the immutable snapshot shared read-only across all
// aggregations of a single pass.
type MarketContext struct {
	Spot         float64
	RiskFreeRate float64
	AsOf         time.Time
}

// Validate reports a fatal context error. An invalid spot aborts the whole
// pass rather than being skipped row by row.
func (m MarketContext) Validate() error {
	if m.Spot <= 0 {
		return fmt.Errorf("spot %v: %w", m.Spot, ErrInvalidSpot)
	}
	return nil
}

// ExposureWindow is the per-pass configuration value object. It is never
// mutated mid-pass.
type ExposureWindow struct {
	// StrikeWidth is the half-window around spot; strikes outside
	// spot +/- StrikeWidth are excluded from windowed aggregates.
	StrikeWidth float64
	// Multiplier is the contract multiplier, e.g. 100 for SPX.
	Multiplier int64
	// GammaScale converts gamma into the desired display unit.
	GammaScale float64
}

func (w ExposureWindow) Validate() error {
	if w.StrikeWidth <= 0 || w.Multiplier <= 0 || w.GammaScale <= 0 {
		return fmt.Errorf("width=%v multiplier=%d scale=%v: %w",
			w.StrikeWidth, w.Multiplier, w.GammaScale, ErrInvalidWindow)
	}
	return nil
}

// ExposureRow is the per-quote derived exposure. Rows are created fresh on
// every pass and never cached across spot updates: exposure depends on spot.
type ExposureRow struct {
	Strike float64
	Type   greeks.OptionType
	// Gross is the dealer-agnostic dollar-notional exposure.
	Gross float64
	// Signed applies the calls-positive / puts-negative dealer convention.
	Signed float64
}

// StrikeExposure is one bar of the per-strike net exposure view.
type StrikeExposure struct {
	Strike float64 `json:"strike"`
	Net    float64 `json:"net_exposure"`
}

// ZeroGammaResult carries the located zero gamma level together with the
// full scanned series so callers can detect multi-crossing regimes.
type ZeroGammaResult struct {
	// Level is the interpolated zero crossing; meaningful only when Found.
	Level float64 `json:"level"`
	// Found is false when net exposure never changes sign on the grid.
	Found bool `json:"found"`

	Prices      []float64 `json:"prices_scanned"`
	NetExposure []float64 `json:"net_exposure_at_price"`

	// SkippedRows counts quotes without a usable implied volatility, which
	// cannot be re-priced across the grid.
	SkippedRows int `json:"skipped_rows"`
}
