package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Zuo-Peng/csvtool/internal/config"
	"github.com/Zuo-Peng/csvtool/internal/render"
	"github.com/Zuo-Peng/csvtool/internal/table"
	"github.com/Zuo-Peng/csvtool/internal/task"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func previewCmd() *cobra.Command {
	var limit, maxWidth int
	var delimiter, column string

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show the first rows of a CSV file as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			delim := cfg.DelimiterRune()
			if cmd.Flags().Changed("delimiter") {
				if delim, err = config.ParseDelimiter(delimiter); err != nil {
					return err
				}
			}

			f, err := os.Open(args[0])
			if err != nil {
				return &task.FileAccessError{Path: args[0], Err: err}
			}
			defer f.Close()

			r := table.NewReader(f, delim)
			header, err := r.Header()
			if err != nil {
				return err
			}

			var rows [][]string
			more := false
			for {
				row, err := r.Read()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				if limit > 0 && len(rows) == limit {
					more = true
					break
				}
				rows = append(rows, row)
			}

			footer := fmt.Sprintf("%d rows", len(rows))
			if more {
				footer = fmt.Sprintf("first %d rows", len(rows))
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.Table(header, rows, render.Options{
				Width:        terminalWidth(),
				MaxCellWidth: maxWidth,
				Highlight:    column,
				Footer:       footer,
			}))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max rows to show (0 = all)")
	cmd.Flags().IntVar(&maxWidth, "max-width", 0, "Truncate cells wider than this (0 = fit terminal)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "Field delimiter, overrides config")
	cmd.Flags().StringVarP(&column, "column", "c", "", "Column to highlight")

	return cmd
}

// terminalWidth is 0 when stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
