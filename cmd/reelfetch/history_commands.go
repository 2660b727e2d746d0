package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reelfetch/internal/history"
	"reelfetch/internal/logging"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Download history maintenance",
	}

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.Paths.HistoryFile, logger)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List recorded downloads per account",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			counts := store.Counts()
			if len(counts) == 0 {
				fmt.Fprintln(out, "History is empty")
				return nil
			}

			rows := make([][]string, 0, len(counts))
			for _, count := range counts {
				rows = append(rows, []string{count.Platform, count.Account, strconv.Itoa(count.Items)})
			}
			fmt.Fprintln(out, renderTable([]string{"Platform", "Account", "Items"}, rows, 2))
			fmt.Fprintf(out, "History file: %s\n", store.Path())
			return nil
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var platformFlag string
	var accountFlag string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget recorded downloads",
		Long: `Remove entries from the download history. Without flags the whole history
is dropped; --platform restricts the purge to one platform and --account to a
single account. Cleared items become eligible for download again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountFlag != "" && platformFlag == "" {
				return fmt.Errorf("--account requires --platform")
			}

			store, err := ctx.openHistory()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if platformFlag == "" {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Cleared download history")
				return nil
			}

			if err := store.ClearAccount(platformFlag, accountFlag); err != nil {
				return err
			}
			if accountFlag == "" {
				fmt.Fprintf(out, "Cleared download history for platform %s\n", platformFlag)
			} else {
				fmt.Fprintf(out, "Cleared download history for %s/%s\n", platformFlag, accountFlag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platformFlag, "platform", "", "Limit the purge to one platform")
	cmd.Flags().StringVar(&accountFlag, "account", "", "Limit the purge to one account (requires --platform)")

	return cmd
}
