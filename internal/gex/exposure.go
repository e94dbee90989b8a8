package gex

import (
	"math"

	"github.com/dgnsrekt/gexlab/internal/greeks"
)

// RowExposure converts a resolved gamma into dollar-notional exposure for
// one quote. The spot-squared term translates a per-$1-move gamma into
// notional terms; the result is dealer-agnostic until signed.
func RowExposure(gamma float64, q OptionQuote, mkt MarketContext, win ExposureWindow) ExposureRow {
	gross := gamma * float64(q.OpenInterest) * mkt.Spot * mkt.Spot *
		float64(win.Multiplier) * win.GammaScale
	signed := gross
	if q.Type == greeks.Put {
		signed = -gross
	}
	return ExposureRow{Strike: q.Strike, Type: q.Type, Gross: gross, Signed: signed}
}

func inWindow(strike, spot, width float64) bool {
	return math.Abs(strike-spot) <= width
}

// GrossGEX sums dealer-agnostic exposure over rows with strikes inside the
// inclusive window spot +/- width. Rows outside the window are excluded
// entirely; zero-open-interest rows contribute zero but are not excluded.
func GrossGEX(rows []ExposureRow, spot, width float64) float64 {
	var total float64
	for _, r := range rows {
		if inWindow(r.Strike, spot, width) {
			total += r.Gross
		}
	}
	return total
}

// NetGEX sums signed exposure (calls positive, puts negative) over the same
// inclusive window as GrossGEX.
func NetGEX(rows []ExposureRow, spot, width float64) float64 {
	var total float64
	for _, r := range rows {
		if inWindow(r.Strike, spot, width) {
			total += r.Signed
		}
	}
	return total
}
