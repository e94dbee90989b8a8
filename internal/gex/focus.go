package gex

import "sort"

// TopStrikesByOI returns the n strikes carrying the most open interest
// inside the window, ordered by strike. Used to re-run the aggregates over
// a high-conviction focus set instead of the whole band.
func TopStrikesByOI(quotes []OptionQuote, n int, spot, width float64) []float64 {
	if n <= 0 {
		return nil
	}

	oiByStrike := make(map[float64]int64)
	for _, q := range quotes {
		if inWindow(q.Strike, spot, width) {
			oiByStrike[q.Strike] += q.OpenInterest
		}
	}

	type bucket struct {
		strike float64
		oi     int64
	}
	buckets := make([]bucket, 0, len(oiByStrike))
	for strike, oi := range oiByStrike {
		buckets = append(buckets, bucket{strike: strike, oi: oi})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].oi != buckets[j].oi {
			return buckets[i].oi > buckets[j].oi
		}
		return buckets[i].strike < buckets[j].strike
	})

	if n > len(buckets) {
		n = len(buckets)
	}
	strikes := make([]float64, 0, n)
	for _, b := range buckets[:n] {
		strikes = append(strikes, b.strike)
	}
	sort.Float64s(strikes)
	return strikes
}

// FilterStrikes keeps only rows whose strike is in the given set,
// preserving order.
func FilterStrikes(rows []ExposureRow, strikes []float64) []ExposureRow {
	set := make(map[float64]struct{}, len(strikes))
	for _, s := range strikes {
		set[s] = struct{}{}
	}
	var filtered []ExposureRow
	for _, r := range rows {
		if _, ok := set[r.Strike]; ok {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
