package main

import (
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/gexlab/internal/chain"
	"github.com/dgnsrekt/gexlab/internal/gex"
)

func zerogammaCmd() *cobra.Command {
	var gridRange, gridStep float64

	cmd := &cobra.Command{
		Use:   "zerogamma <snapshot.csv>",
		Short: "Scan the price grid and report the full zero gamma series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			snap, err := chain.LoadSnapshot(args[0], cfg.Analytics.RiskFreeRate, logger)
			if err != nil {
				return err
			}

			if gridRange <= 0 {
				gridRange = cfg.Analytics.GridRange
			}
			if gridStep <= 0 {
				gridStep = cfg.Analytics.GridStep
			}

			evaluator := gex.NewEvaluator(cfg.Analytics.Workers, logger)
			result, err := evaluator.LocateZeroGamma(ctx, snap.Quotes, snap.Market,
				cfg.Analytics.Window(), gridRange, gridStep)
			if err != nil {
				return err
			}

			return printJSON(result)
		},
	}

	cmd.Flags().Float64Var(&gridRange, "range", 0, "half-width of the scanned price grid (default from config)")
	cmd.Flags().Float64Var(&gridStep, "step", 0, "price increment of the scanned grid (default from config)")
	return cmd
}
