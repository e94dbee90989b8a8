package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgnsrekt/gexlab/internal/chain"
	"github.com/dgnsrekt/gexlab/internal/gex"
)

// loadPass reads a snapshot file and runs one full chain pass with the
// configured window.
func loadPass(ctx context.Context, path string) (*chain.Snapshot, *gex.PassResult, gex.ExposureWindow, error) {
	win := cfg.Analytics.Window()

	snap, err := chain.LoadSnapshot(path, cfg.Analytics.RiskFreeRate, logger)
	if err != nil {
		return nil, nil, win, err
	}

	evaluator := gex.NewEvaluator(cfg.Analytics.Workers, logger)
	pass, err := evaluator.Evaluate(ctx, snap.Quotes, snap.Market, win)
	if err != nil {
		return nil, nil, win, fmt.Errorf("evaluating chain: %w", err)
	}
	return snap, pass, win, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
