package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgnsrekt/gexlab/internal/gex"
)

type metricsOutput struct {
	Snapshot string  `json:"snapshot"`
	Symbol   string  `json:"symbol"`
	AsOf     string  `json:"as_of"`
	Spot     float64 `json:"spot"`

	GrossGEX  float64 `json:"gross_gex"`
	NetGEX    float64 `json:"net_gex"`
	Imbalance float64 `json:"imbalance"`
	HedgeFlow float64 `json:"hedge_flow_score"`

	ZeroGammaLevel float64 `json:"zero_gamma_level"`
	ZeroGammaFound bool    `json:"zero_gamma_found"`

	FocusStrikes []float64 `json:"focus_strikes,omitempty"`

	QuotesTotal   int              `json:"quotes_total"`
	QuotesSkipped int              `json:"quotes_skipped"`
	SkippedQuotes []gex.SkippedRow `json:"skipped_quotes,omitempty"`
}

func metricsCmd() *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "metrics <snapshot.csv>",
		Short: "Compute gross/net GEX, imbalance and the zero gamma level for one snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			snap, pass, win, err := loadPass(ctx, args[0])
			if err != nil {
				return err
			}
			spot := snap.Market.Spot

			out := metricsOutput{
				Snapshot:      args[0],
				Symbol:        snap.Symbol,
				AsOf:          snap.AsOf.Format("2006-01-02T15:04:05Z07:00"),
				Spot:          spot,
				QuotesTotal:   pass.Total,
				QuotesSkipped: pass.Skipped + snap.SkippedRows,
				SkippedQuotes: pass.Skips,
			}

			rows := pass.Rows
			if topN > 0 {
				out.FocusStrikes = gex.TopStrikesByOI(snap.Quotes, topN, spot, win.StrikeWidth)
				rows = gex.FilterStrikes(rows, out.FocusStrikes)
				logger.Info("restricting pass to top open-interest strikes",
					zap.Int("n", topN),
					zap.Float64s("strikes", out.FocusStrikes),
				)
			}

			out.GrossGEX = gex.GrossGEX(rows, spot, win.StrikeWidth)
			out.NetGEX = gex.NetGEX(rows, spot, win.StrikeWidth)
			out.HedgeFlow = gex.HedgeFlowScore(rows, spot,
				cfg.Analytics.SpotWindowPct, cfg.Analytics.ReferenceMovePct)

			dgi, err := gex.Imbalance(rows, spot, win.StrikeWidth)
			if err != nil && !errors.Is(err, gex.ErrEmptyWindow) {
				return err
			}
			// Nothing on either side of spot reads as a neutral market.
			out.Imbalance = dgi

			evaluator := gex.NewEvaluator(cfg.Analytics.Workers, logger)
			zg, err := evaluator.LocateZeroGamma(ctx, snap.Quotes, snap.Market, win,
				cfg.Analytics.GridRange, cfg.Analytics.GridStep)
			if err != nil {
				return err
			}
			out.ZeroGammaLevel = zg.Level
			out.ZeroGammaFound = zg.Found

			return printJSON(out)
		},
	}

	cmd.Flags().IntVar(&topN, "top", 0, "restrict aggregates to the N strikes with the most open interest")
	return cmd
}
