package main

import (
	"fmt"
	"log/slog"

	"github.com/Zuo-Peng/csvtool/internal/rewrite"
	"github.com/Zuo-Peng/csvtool/internal/task"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

func sumDurationCmd(logLevel *string) *cobra.Command {
	var flags taskFlags
	var column, onParseError string
	var copyTotal bool

	cmd := &cobra.Command{
		Use:   "sum-duration",
		Short: "Sum an H:MM duration column and append the total as a summary row",
		Long: `Copies every row of the input to the output and appends one summary row.
The summary row is empty except for the target column, which holds the
total of all H:MM values in that column. A target column that is not in
the header is not an error: rows are copied and the total is 0:00.

With --on-parse-error abort (the default) a cell without a duration stops
the run before that row is written. With zero it counts as 0:00.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, *logLevel)
			if err != nil {
				return err
			}

			t := task.Task{Kind: task.SumDuration, Column: column, Logger: logger}
			if err := flags.apply(cmd, cfg, &t); err != nil {
				return err
			}
			t.OnParseError = cfg.Policy()
			if cmd.Flags().Changed("on-parse-error") {
				if t.OnParseError, err = rewrite.ParsePolicy(onParseError); err != nil {
					return err
				}
			}

			res, err := execute(cfg, logger, t, !flags.noHistory)
			if err != nil {
				return err
			}

			total := res.Total.String()
			fmt.Fprintln(cmd.OutOrStdout(), total)
			if res.Zeroed > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d cell(s) in %q had no duration and counted as 0:00\n", res.Zeroed, column)
			}
			if !res.ColumnFound {
				fmt.Fprintf(cmd.ErrOrStderr(), "column %q not found, rows copied unchanged\n", column)
			}

			if copyTotal {
				if err := clipboard.WriteAll(total); err != nil {
					logger.Warn("copy to clipboard", slog.String("error", err.Error()))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&column, "column", "c", "", "Column to sum up")
	cmd.Flags().StringVar(&onParseError, "on-parse-error", "", "abort or zero, overrides config")
	cmd.Flags().BoolVar(&copyTotal, "copy", false, "Copy the total to the clipboard")
	cmd.MarkFlagRequired("column")
	flags.register(cmd)

	return cmd
}
