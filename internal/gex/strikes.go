package gex

import (
	"math"
	"sort"
)

// NetByStrike buckets signed exposure by strike over the inclusive window
// and returns the buckets ordered by strike. Strikes with no quotes are
// simply absent; see ZeroFill for charting continuity.
func NetByStrike(rows []ExposureRow, spot, width float64) []StrikeExposure {
	sums := make(map[float64]float64)
	for _, r := range rows {
		if inWindow(r.Strike, spot, width) {
			sums[r.Strike] += r.Signed
		}
	}

	levels := make([]StrikeExposure, 0, len(sums))
	for strike, net := range sums {
		levels = append(levels, StrikeExposure{Strike: strike, Net: net})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Strike < levels[j].Strike })
	return levels
}

// ZeroFill inserts zero-exposure buckets at every multiple of step between
// the first and last strike of the ordered levels. Opt-in: most consumers
// prefer absent strikes to stay absent.
//
// Lattice points are generated by multiplication, not accumulation, and
// present strikes match within a fraction of the step, so fractional steps
// like 0.1 never drift off their buckets.
func ZeroFill(levels []StrikeExposure, step float64) []StrikeExposure {
	if len(levels) < 2 || step <= 0 {
		return levels
	}

	first := levels[0].Strike
	last := levels[len(levels)-1].Strike
	eps := step * 1e-6

	var filled []StrikeExposure
	j := 0
	for i := 0; ; i++ {
		strike := first + float64(i)*step
		if strike > last+eps {
			break
		}
		// Strikes off the step lattice keep their buckets.
		for j < len(levels) && levels[j].Strike < strike-eps {
			filled = append(filled, levels[j])
			j++
		}
		if j < len(levels) && math.Abs(levels[j].Strike-strike) <= eps {
			filled = append(filled, levels[j])
			j++
		} else {
			filled = append(filled, StrikeExposure{Strike: strike})
		}
	}
	filled = append(filled, levels[j:]...)
	return filled
}
