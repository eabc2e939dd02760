package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Zuo-Peng/csvtool/internal/config"
	"github.com/Zuo-Peng/csvtool/internal/history"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: show config and run history status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Fprintln(out, "=== Config ===")
			if cfg.Path == "" {
				fmt.Fprintln(out, "  File: none (using defaults)")
			} else {
				fmt.Fprintf(out, "  File: %s\n", cfg.Path)
			}
			fmt.Fprintf(out, "  Delimiter:       %q\n", cfg.DelimiterRune())
			fmt.Fprintf(out, "  Normalize cells: %v\n", cfg.NormalizeCells)
			fmt.Fprintf(out, "  On parse error:  %s\n", cfg.Policy())
			fmt.Fprintf(out, "  Log level:       %s\n", cfg.LogLevel)

			fmt.Fprintln(out, "\n=== History ===")
			fmt.Fprintf(out, "  Path: %s\n", cfg.HistoryPath)
			if !cfg.RecordHistory {
				fmt.Fprintln(out, "  Status: DISABLED (record_history = false)")
			}
			return checkHistory(out, cfg.HistoryPath)
		},
	}
}

func checkHistory(out io.Writer, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "  Status: NOT FOUND (created on the first run)")
		return nil
	}

	db, err := history.OpenDB(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer db.Close()

	n, err := db.RunCount()
	if err != nil {
		return fmt.Errorf("count runs: %w", err)
	}
	fmt.Fprintf(out, "  Runs: %d\n", n)

	if info, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "  Size: %.1f KB\n", float64(info.Size())/1024)
	}
	return nil
}
