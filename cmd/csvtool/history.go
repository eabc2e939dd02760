package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/csvtool/internal/config"
	"github.com/Zuo-Peng/csvtool/internal/history"
	"github.com/Zuo-Peng/csvtool/internal/render"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sum-duration and rewrite runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if _, err := os.Stat(cfg.HistoryPath); os.IsNotExist(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), "No runs recorded.")
				return nil
			}

			db, err := history.OpenDB(cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.Recent(limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.History(runs, render.Options{Width: terminalWidth()}))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max runs to show (0 = all)")

	return cmd
}
