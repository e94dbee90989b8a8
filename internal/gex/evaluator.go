package gex

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Evaluator runs chain passes. Per-row Greek completion has no inter-row
// dependency, so rows are distributed across a worker pool and the result
// order is restored deterministically afterwards.
type Evaluator struct {
	workers int
	logger  *zap.Logger
}

func NewEvaluator(workers int, logger *zap.Logger) *Evaluator {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{workers: workers, logger: logger}
}

// PassResult is the outcome of one chain pass. Skipped rows are reported
// alongside the rows so callers can distinguish "zero exposure" from "all
// rows excluded".
type PassResult struct {
	// ID correlates log lines and downstream aggregates of one pass.
	ID      string
	Rows    []ExposureRow
	Total   int
	Skipped int
	Skips   []SkippedRow
}

// SkippedRow identifies one excluded quote by its position in the input
// chain, so surfaces can report which rows an aggregate is missing.
type SkippedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type rowJob struct {
	index int
	quote OptionQuote
}

type rowResult struct {
	index int
	row   ExposureRow
	err   error
}

// Evaluate resolves gamma for every quote and converts it into exposure
// rows sorted by (strike, type). A malformed quote or a failed volatility
// solve is isolated into the skip count; an invalid market context is
// fatal for the whole pass. Replaying the same snapshot and window yields
// identical rows.
func (e *Evaluator) Evaluate(ctx context.Context, quotes []OptionQuote, mkt MarketContext, win ExposureWindow) (*PassResult, error) {
	if err := mkt.Validate(); err != nil {
		return nil, err
	}
	if err := win.Validate(); err != nil {
		return nil, err
	}

	result := &PassResult{ID: uuid.NewString(), Total: len(quotes)}
	if len(quotes) == 0 {
		return result, nil
	}

	jobs := make(chan rowJob, len(quotes))
	results := make(chan rowResult, len(quotes))

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				gamma, err := ResolveGamma(job.quote, mkt)
				if err != nil {
					results <- rowResult{index: job.index, err: err}
					continue
				}
				results <- rowResult{index: job.index, row: RowExposure(gamma, job.quote, mkt, win)}
			}
		}()
	}

	// The jobs channel is sized to the chain, so enqueueing never blocks.
	for i, q := range quotes {
		jobs <- rowJob{index: i, quote: q}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var skips []SkippedRow
	for r := range results {
		if r.err != nil {
			e.logger.Debug("skipping quote",
				zap.String("pass", result.ID),
				zap.Int("row", r.index),
				zap.Error(r.err),
			)
			skips = append(skips, SkippedRow{Index: r.index, Reason: r.err.Error()})
			continue
		}
		result.Rows = append(result.Rows, r.row)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Restore deterministic ordering after the parallel completion.
	sort.Slice(result.Rows, func(i, j int) bool {
		if result.Rows[i].Strike != result.Rows[j].Strike {
			return result.Rows[i].Strike < result.Rows[j].Strike
		}
		return result.Rows[i].Type < result.Rows[j].Type
	})
	sort.Slice(skips, func(i, j int) bool { return skips[i].Index < skips[j].Index })
	result.Skips = skips
	result.Skipped = len(skips)

	e.logger.Info("chain pass complete",
		zap.String("pass", result.ID),
		zap.Int("total", result.Total),
		zap.Int("rows", len(result.Rows)),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
