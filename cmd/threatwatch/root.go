package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/threatwatch/internal/app"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath  string
	pollSeconds float64
	logLevel    string
}

func (g *globalFlags) options() app.Options {
	opts := app.Options{
		ConfigPath: g.configPath,
		LogLevel:   g.logLevel,
	}
	if g.pollSeconds > 0 {
		opts.PollEvery = time.Duration(g.pollSeconds * float64(time.Second))
	}
	return opts
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	var plain, fromEnd bool

	rootCmd := &cobra.Command{
		Use:           "threatwatch [log-file]",
		Short:         "Watch a log file for threat signatures",
		Long:          "threatwatch follows a growing log file, counts lines matching threat signatures and answers queries about what it has seen.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options()
			if len(args) == 1 {
				opts.LogFile = args[0]
			}
			opts.Plain = plain
			opts.FromEnd = fromEnd
			opts.Stdin = cmd.InOrStdin()
			opts.Stdout = cmd.OutOrStdout()
			return app.Run(cmd.Context(), opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (default ~/.config/threatwatch/config.toml)")
	rootCmd.PersistentFlags().Float64Var(&flags.pollSeconds, "poll", 0, "Polling interval in seconds (defaults to config, 2s)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "Use the line-mode menu even on a terminal")
	rootCmd.Flags().BoolVar(&fromEnd, "from-end", false, "Skip content already in the file")

	rootCmd.AddCommand(newScanCommand(flags))
	rootCmd.AddCommand(newSignaturesCommand(flags))

	return rootCmd
}
