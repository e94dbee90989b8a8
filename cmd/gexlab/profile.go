package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/gexlab/internal/chain"
	"github.com/dgnsrekt/gexlab/internal/gex"
)

type profileOutput struct {
	Snapshot string               `json:"snapshot"`
	Symbol   string               `json:"symbol"`
	Spot     float64              `json:"spot"`
	Greek    string               `json:"greek"`
	Levels   []gex.StrikeExposure `json:"levels"`

	QuotesSkipped int `json:"quotes_skipped"`
}

func profileCmd() *cobra.Command {
	var greek string

	cmd := &cobra.Command{
		Use:   "profile <snapshot.csv>",
		Short: "Compute a per-strike greek exposure profile (gamma, vanna or charm)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind gex.GreekKind
			switch greek {
			case "gamma":
				kind = gex.GammaKind
			case "vanna":
				kind = gex.VannaKind
			case "charm":
				kind = gex.CharmKind
			default:
				return fmt.Errorf("unknown greek %q (want gamma, vanna or charm)", greek)
			}

			snap, err := chain.LoadSnapshot(args[0], cfg.Analytics.RiskFreeRate, logger)
			if err != nil {
				return err
			}

			levels, skipped, err := gex.GreekProfile(snap.Quotes, snap.Market, cfg.Analytics.Window(), kind)
			if err != nil {
				return err
			}

			return printJSON(profileOutput{
				Snapshot:      args[0],
				Symbol:        snap.Symbol,
				Spot:          snap.Market.Spot,
				Greek:         greek,
				Levels:        levels,
				QuotesSkipped: skipped + snap.SkippedRows,
			})
		},
	}

	cmd.Flags().StringVar(&greek, "greek", "gamma", "greek to profile: gamma, vanna or charm")
	return cmd
}
