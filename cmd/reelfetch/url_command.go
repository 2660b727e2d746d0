package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newURLCommand(ctx *commandContext) *cobra.Command {
	var platformFlag string

	cmd := &cobra.Command{
		Use:   "url <item-url>",
		Short: "Download a single item by its page URL",
		Long: `Download the item behind a reel or post page URL. Unlike batch runs, a
failure here is fatal: the command exits non-zero when the item cannot be
downloaded after all retry attempts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := ctx.buildPipeline(platformFlag, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := pipe.orchestrator.DownloadOne(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("download %s: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platformFlag, "platform", "", "Platform the URL belongs to (default instagram)")

	return cmd
}
