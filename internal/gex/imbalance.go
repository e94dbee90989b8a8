package gex

import "math"

// Imbalance computes the Directional Gamma Imbalance: gross gamma mass
// below spot minus mass above, normalized into [-1, +1]. Positive DGI
// means more gamma below spot, i.e. bullish dealer hedging pressure.
//
// Rows exactly at spot belong to neither partition; this tie-break keeps
// the score from flipping on the pinned strike itself. When both
// partitions are empty or zero the function returns ErrEmptyWindow rather
// than dividing by zero; callers that want a neutral reading map it to 0.
func Imbalance(rows []ExposureRow, spot, width float64) (float64, error) {
	var above, below float64
	for _, r := range rows {
		if !inWindow(r.Strike, spot, width) {
			continue
		}
		switch {
		case r.Strike > spot:
			above += r.Gross
		case r.Strike < spot:
			below += r.Gross
		}
	}

	denom := math.Abs(above) + math.Abs(below)
	if denom == 0 {
		return 0, ErrEmptyWindow
	}

	dgi := (below - above) / denom
	return math.Max(-1, math.Min(1, dgi)), nil
}
