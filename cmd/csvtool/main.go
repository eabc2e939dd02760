package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Zuo-Peng/csvtool/internal/config"
	"github.com/Zuo-Peng/csvtool/internal/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "csvtool",
		Short:         "Operations on CSV files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug/info/warn/error), overrides config")

	rootCmd.AddCommand(sumDurationCmd(&logLevel))
	rootCmd.AddCommand(rewriteCmd(&logLevel))
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(doctorCmd())

	return rootCmd
}

// setup loads the config and builds a stderr logger for cmd.
func setup(cmd *cobra.Command, logLevel string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
