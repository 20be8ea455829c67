package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/threatwatch/internal/app"
	"github.com/five82/threatwatch/internal/console"
	"github.com/five82/threatwatch/internal/state"
)

func newScanCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <log-file>",
		Short: "Classify a log file once and print the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options()
			opts.LogFile = args[0]
			opts.Stdout = cmd.OutOrStdout()

			snap, err := app.Scan(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nThreat Statistics:\n%s\n", console.RenderCounts(snap.Counts))
			fmt.Fprintf(out, "\nLast %d Log Entries:\n%s\n", state.RecentCapacity, console.RenderRecent(snap.RecentLines))
			fmt.Fprintf(out, "\nProcessed %d lines, %d threats.\n", snap.TotalLines, snap.TotalMatches())
			return nil
		},
	}
}
