package main

import (
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/gexlab/internal/gex"
)

type strikesOutput struct {
	Snapshot string               `json:"snapshot"`
	Symbol   string               `json:"symbol"`
	Spot     float64              `json:"spot"`
	Levels   []gex.StrikeExposure `json:"levels"`

	QuotesSkipped int `json:"quotes_skipped"`
}

func strikesCmd() *cobra.Command {
	var fillStep float64

	cmd := &cobra.Command{
		Use:   "strikes <snapshot.csv>",
		Short: "Compute the per-strike net exposure table for one snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, pass, win, err := loadPass(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			spot := snap.Market.Spot

			levels := gex.NetByStrike(pass.Rows, spot, win.StrikeWidth)
			if fillStep > 0 {
				levels = gex.ZeroFill(levels, fillStep)
			}

			return printJSON(strikesOutput{
				Snapshot:      args[0],
				Symbol:        snap.Symbol,
				Spot:          spot,
				Levels:        levels,
				QuotesSkipped: pass.Skipped + snap.SkippedRows,
			})
		},
	}

	cmd.Flags().Float64Var(&fillStep, "fill", 0, "insert zero buckets on this strike step for chart continuity")
	return cmd
}
