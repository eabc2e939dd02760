package main

import (
	"fmt"

	"github.com/Zuo-Peng/csvtool/internal/task"
	"github.com/spf13/cobra"
)

func rewriteCmd(logLevel *string) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Copy a CSV file, optionally trimming every cell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, *logLevel)
			if err != nil {
				return err
			}

			t := task.Task{Kind: task.Rewrite, Logger: logger}
			if err := flags.apply(cmd, cfg, &t); err != nil {
				return err
			}

			res, err := execute(cfg, logger, t, !flags.noHistory)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", res.Rows, t.OutFile)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
