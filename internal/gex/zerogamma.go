package gex

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/dgnsrekt/gexlab/internal/greeks"
)

// gridQuote is a chain row prepared for re-pricing across the grid.
type gridQuote struct {
	strike float64
	iv     float64
	years  float64
	oi     float64
	put    bool
}

// LocateZeroGamma scans hypothetical spot prices on the grid
// [round(spot)-gridRange, round(spot)+gridRange] at the given step,
// recomputes every row's gamma from its own implied volatility at each
// price (the observed gamma column only holds at the current spot), sums
// signed exposure per price, and interpolates the first sign crossing in
// ascending price order. When net exposure never changes sign the result
// reports Found=false; it is never defaulted to spot or a grid edge.
//
// Rows that cannot be re-priced (no implied volatility and no solvable
// last price, or already expired) are skipped and counted.
func (e *Evaluator) LocateZeroGamma(ctx context.Context, quotes []OptionQuote, mkt MarketContext, win ExposureWindow, gridRange, step float64) (*ZeroGammaResult, error) {
	if err := mkt.Validate(); err != nil {
		return nil, err
	}
	if err := win.Validate(); err != nil {
		return nil, err
	}
	if gridRange <= 0 || step <= 0 {
		return nil, fmt.Errorf("range=%v step=%v: %w", gridRange, step, ErrInvalidGrid)
	}

	result := &ZeroGammaResult{}
	var usable []gridQuote
	for i, q := range quotes {
		gq, err := prepareGridQuote(q, mkt)
		if err != nil {
			e.logger.Debug("zero gamma scan skipping quote", zap.Int("row", i), zap.Error(err))
			result.SkippedRows++
			continue
		}
		usable = append(usable, gq)
	}

	center := math.Round(mkt.Spot)
	for p := center - gridRange; p <= center+gridRange+step/2; p += step {
		if p > 0 {
			result.Prices = append(result.Prices, p)
		}
	}
	result.NetExposure = make([]float64, len(result.Prices))

	// Prices are independent; fan the grid out across the pool. The
	// crossing scan below is inherently sequential and runs afterwards.
	var wg sync.WaitGroup
	indices := make(chan int, len(result.Prices))
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				select {
				case <-ctx.Done():
					return
				default:
				}
				result.NetExposure[i] = netExposureAt(result.Prices[i], usable, mkt.RiskFreeRate, win)
			}
		}()
	}
	for i := range result.Prices {
		indices <- i
	}
	close(indices)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Level, result.Found = FirstCrossing(result.Prices, result.NetExposure)

	e.logger.Info("zero gamma scan complete",
		zap.Int("prices", len(result.Prices)),
		zap.Int("rows", len(usable)),
		zap.Int("skipped", result.SkippedRows),
		zap.Bool("found", result.Found),
		zap.Float64("level", result.Level),
	)
	return result, nil
}

func prepareGridQuote(q OptionQuote, mkt MarketContext) (gridQuote, error) {
	if err := q.Validate(); err != nil {
		return gridQuote{}, err
	}
	years := YearsToExpiry(mkt.AsOf, q.Expiry)
	if years <= 0 {
		return gridQuote{}, fmt.Errorf("contract expired: %w", greeks.ErrDegenerateInput)
	}
	if years < minYearsToExpiry {
		years = minYearsToExpiry
	}
	if q.IV == nil && q.LastPrice == nil {
		return gridQuote{}, fmt.Errorf("no implied volatility to re-price with: %w", ErrInvalidQuote)
	}
	iv, err := resolveIV(q, mkt, years)
	if err != nil {
		return gridQuote{}, err
	}
	return gridQuote{
		strike: q.Strike,
		iv:     iv,
		years:  years,
		oi:     float64(q.OpenInterest),
		put:    q.Type == greeks.Put,
	}, nil
}

func netExposureAt(price float64, rows []gridQuote, riskFree float64, win ExposureWindow) float64 {
	var net float64
	for _, r := range rows {
		gamma, err := greeks.Gamma(price, r.strike, riskFree, r.iv, r.years)
		if err != nil {
			continue
		}
		gex := gamma * r.oi * price * price * float64(win.Multiplier) * win.GammaScale
		if r.put {
			net -= gex
		} else {
			net += gex
		}
	}
	return net
}

// FirstCrossing returns the linearly interpolated price of the first
// adjacent sign change in net, scanned in ascending price order. Exact
// zeros carry the previous non-zero sign forward so flat spans do not
// register spurious crossings.
func FirstCrossing(prices, net []float64) (float64, bool) {
	if len(prices) != len(net) || len(prices) < 2 {
		return 0, false
	}

	var last float64
	for i := 0; i < len(net)-1; i++ {
		s1 := sign(net[i])
		if s1 == 0 {
			s1 = last
		} else {
			last = s1
		}
		s2 := sign(net[i+1])
		if s2 == 0 {
			s2 = s1
		}
		if s1 == 0 || s1 == s2 {
			continue
		}
		y1, y2 := net[i], net[i+1]
		if y1 == y2 {
			continue
		}
		return prices[i] + (0-y1)*(prices[i+1]-prices[i])/(y2-y1), true
	}
	return 0, false
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
