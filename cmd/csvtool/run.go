package main

import (
	"log/slog"
	"time"

	"github.com/Zuo-Peng/csvtool/internal/config"
	"github.com/Zuo-Peng/csvtool/internal/history"
	"github.com/Zuo-Peng/csvtool/internal/rewrite"
	"github.com/Zuo-Peng/csvtool/internal/task"
	"github.com/spf13/cobra"
)

// taskFlags are the flags shared by sum-duration and rewrite.
type taskFlags struct {
	infile    string
	outfile   string
	delimiter string
	trim      bool
	noHistory bool
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.infile, "infile", "i", "", "CSV input file")
	cmd.Flags().StringVarP(&f.outfile, "outfile", "o", "", "CSV output file")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "Field delimiter, overrides config")
	cmd.Flags().BoolVar(&f.trim, "trim", false, "Trim surrounding whitespace from every cell")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "Do not record this run")
	cmd.MarkFlagRequired("infile")
	cmd.MarkFlagRequired("outfile")
}

// apply fills the task fields that come from config, letting explicitly
// set flags win.
func (f *taskFlags) apply(cmd *cobra.Command, cfg *config.Config, t *task.Task) error {
	t.InFile = f.infile
	t.OutFile = f.outfile

	t.Delimiter = cfg.DelimiterRune()
	if cmd.Flags().Changed("delimiter") {
		r, err := config.ParseDelimiter(f.delimiter)
		if err != nil {
			return err
		}
		t.Delimiter = r
	}

	t.NormalizeCells = cfg.NormalizeCells
	if cmd.Flags().Changed("trim") {
		t.NormalizeCells = f.trim
	}
	return nil
}

// execute runs t and records the outcome in the run log.
func execute(cfg *config.Config, logger *slog.Logger, t task.Task, record bool) (rewrite.Result, error) {
	started := time.Now()
	res, err := t.Execute()

	if record && cfg.RecordHistory {
		recordRun(cfg.HistoryPath, logger, t, started, res, err)
	}
	return res, err
}

func recordRun(path string, logger *slog.Logger, t task.Task, started time.Time, res rewrite.Result, runErr error) {
	db, err := history.OpenDB(path)
	if err != nil {
		logger.Warn("history unavailable", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	defer db.Close()

	r := history.Run{
		StartedAt:    started,
		Operation:    t.Kind.String(),
		Column:       t.Column,
		InFile:       t.InFile,
		OutFile:      t.OutFile,
		Rows:         res.Rows,
		Zeroed:       res.Zeroed,
		TotalMinutes: res.Total.TotalMinutes(),
		Status:       history.StatusOK,
	}
	if t.Kind == task.SumDuration {
		r.Policy = t.OnParseError.String()
	}
	if runErr != nil {
		r.Status = history.StatusFailed
		r.Error = runErr.Error()
	}
	if _, err := db.Record(r); err != nil {
		logger.Warn("record run", slog.String("error", err.Error()))
	}
}
