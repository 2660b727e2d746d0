package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"reelfetch/internal/acquire"
	"reelfetch/internal/criteria"
)

func newAccountCommand(ctx *commandContext) *cobra.Command {
	var (
		limitFlag       int
		minSizeFlag     float64
		minDurationFlag float64
		platformFlag    string
	)

	cmd := &cobra.Command{
		Use:   "account <name>",
		Short: "Download all new items published by an account",
		Long: `Download every item the account has published that is not yet in the
download history and that passes the size and duration thresholds. Items are
processed one at a time with a randomized pause between transfers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := ctx.buildPipeline(platformFlag, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			thresholds := criteria.Thresholds{
				MinSizeMB:          pipe.cfg.Filters.MinSizeMB,
				MinDurationSeconds: pipe.cfg.Filters.MinDurationSeconds,
			}
			if cmd.Flags().Changed("min-size") {
				thresholds.MinSizeMB = minSizeFlag
			}
			if cmd.Flags().Changed("min-duration") {
				thresholds.MinDurationSeconds = minDurationFlag
			}

			opts := acquire.RunOptions{
				Limit:      limitFlag,
				Thresholds: thresholds,
			}

			var bar *progressbar.ProgressBar
			if isatty.IsTerminal(os.Stderr.Fd()) {
				opts.Progress = func(completed, total int) {
					if bar == nil {
						bar = progressbar.NewOptions(total,
							progressbar.OptionSetDescription("downloading"),
							progressbar.OptionSetWriter(os.Stderr),
							progressbar.OptionShowCount(),
							progressbar.OptionClearOnFinish(),
						)
					}
					_ = bar.Set(completed)
				}
			}

			summary, err := pipe.orchestrator.Run(cmd.Context(), args[0], opts)
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSummary(summary))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "l", 0, "Stop after this many new downloads (0 = no limit)")
	cmd.Flags().Float64VarP(&minSizeFlag, "min-size", "s", 0, "Minimum video size in megabytes (0 = no check)")
	cmd.Flags().Float64VarP(&minDurationFlag, "min-duration", "t", 0, "Minimum video duration in seconds (0 = no check)")
	cmd.Flags().StringVar(&platformFlag, "platform", "", "Platform to download from (default instagram)")

	return cmd
}
