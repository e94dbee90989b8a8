package gex

import (
	"math"

	"github.com/dgnsrekt/gexlab/internal/greeks"
)

// HedgeFlowScore condenses local dealer hedging pressure into a bounded
// decision score. Rows inside the tight percentage window around spot are
// split by type (windowPct is the full window, 0.01 means +/-0.5%);
// dealers are treated as short options, so net dealer gamma is put mass
// minus call mass. The expected hedge flow over a reference move of
// spot*referenceMovePct is normalized by the total unsigned flow over the
// same move and clamped to [-1, +1].
//
// Positive scores mark mean-reversion / pinning regimes, negative scores
// acceleration / breakout regimes. A window with no gamma mass reads as a
// neutral 0 rather than an error: the score is a regime dial, and an empty
// local window simply exerts no pressure.
func HedgeFlowScore(rows []ExposureRow, spot, windowPct, referenceMovePct float64) float64 {
	windowHalf := windowPct / 2
	lower := spot * (1 - windowHalf)
	upper := spot * (1 + windowHalf)

	var callMass, putMass, total float64
	for _, r := range rows {
		if r.Strike < lower || r.Strike > upper {
			continue
		}
		if r.Type == greeks.Put {
			putMass += r.Gross
		} else {
			callMass += r.Gross
		}
		total += math.Abs(r.Gross)
	}

	deltaS := spot * referenceMovePct
	flow := (putMass - callMass) * deltaS
	norm := total * deltaS
	if norm == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, flow/norm))
}
