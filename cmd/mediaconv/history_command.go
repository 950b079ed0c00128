package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mediaconv/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect finished conversions",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent conversions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No conversions recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.FinishedAt.Local().Format(time.DateTime),
					record.SourcePath,
					record.Target,
					record.Backend,
					outcomeCell(record),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Finished", "Source", "Target", "Backend", "Outcome"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one conversion in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			record, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("no conversion with id %q", args[0])
			}

			rows := [][]string{
				{"ID", record.ID},
				{"Source", record.SourcePath},
				{"Destination", record.Destination},
				{"Kind", record.Kind},
				{"Target", record.Target},
				{"Backend", record.Backend},
				{"Outcome", outcomeCell(record)},
				{"Started", record.StartedAt.Local().Format(time.DateTime)},
				{"Finished", record.FinishedAt.Local().Format(time.DateTime)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d conversion(s)\n", removed)
			return nil
		},
	}
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(cfg.HistoryDBPath())
}

func outcomeCell(record *history.Record) string {
	if record.Outcome == history.OutcomeFailed && record.ErrorMessage != "" {
		return fmt.Sprintf("%s: %s", record.Outcome, record.ErrorMessage)
	}
	return string(record.Outcome)
}
