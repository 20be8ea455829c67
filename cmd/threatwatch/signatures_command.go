package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/threatwatch/internal/app"
	"github.com/five82/threatwatch/internal/console"
)

func newSignaturesCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "signatures",
		Short: "List the effective threat signatures in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(flags.options())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, console.RenderSignatures(cfg.Signatures))
			fmt.Fprintf(out, "%d signatures, categories: %s\n", len(cfg.Signatures), strings.Join(cfg.Signatures.Categories(), ", "))
			return nil
		},
	}
}
