package rewrite

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Zuo-Peng/csvtool/internal/duration"
	"github.com/Zuo-Peng/csvtool/internal/table"
)

// Policy decides what happens when a target cell holds no duration.
type Policy int

const (
	// Abort fails the run before the offending row is written.
	Abort Policy = iota
	// TreatAsZero counts the cell as 0:00 and keeps going.
	TreatAsZero
)

func (p Policy) String() string {
	switch p {
	case Abort:
		return "abort"
	case TreatAsZero:
		return "zero"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts "abort"/"strict" and "zero"/"lenient".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort", "strict":
		return Abort, nil
	case "zero", "lenient":
		return TreatAsZero, nil
	}
	return Abort, fmt.Errorf("unknown parse error policy %q (want abort or zero)", s)
}

// ErrParsing matches any ParseError.
var ErrParsing = errors.New("unparseable duration")

type ParseError struct {
	Column string
	Line   int
	Value  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: column %q: %q is not a duration", e.Line, e.Column, e.Value)
}

func (e *ParseError) Is(target error) bool { return target == ErrParsing }

// Source yields a header followed by rows, then io.EOF.
type Source interface {
	Header() (table.Header, error)
	Read() (table.Row, error)
}

type Sink interface {
	WriteHeader(table.Header) error
	Write(table.Row) error
}

// lineReporter is implemented by sources that know where a row came from.
type lineReporter interface {
	Line() int
}

type Options struct {
	// Column is the target column. Ignored unless Aggregate is set.
	Column         string
	Aggregate      bool
	NormalizeCells bool
	OnParseError   Policy
	Parser         *duration.Parser
	Logger         *slog.Logger
}

type Result struct {
	Rows        int
	Parsed      int
	Zeroed      int
	ColumnFound bool
	Total       duration.Duration
}

// Process copies src to dst in one pass. With Aggregate set it sums the
// target column and appends a summary row holding the total under that
// column and blanks elsewhere. A missing target column is not an error:
// rows pass through and the total stays 0:00.
func Process(src Source, dst Sink, opts Options) (Result, error) {
	var res Result

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	parser := opts.Parser
	if parser == nil {
		parser = duration.NewParser()
	}

	header, err := src.Header()
	if err != nil {
		return res, err
	}
	if opts.NormalizeCells {
		header = header.Trimmed()
	}
	if err := dst.WriteHeader(header); err != nil {
		return res, fmt.Errorf("write header: %w", err)
	}

	col := -1
	if opts.Aggregate {
		col = header.Index(opts.Column)
		res.ColumnFound = col >= 0
		if !res.ColumnFound {
			logger.Warn("target column not in header, rows pass through",
				slog.String("column", opts.Column))
		}
	}

	totalMinutes := 0
	for {
		row, err := src.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, err
		}
		if opts.NormalizeCells {
			row = row.Trimmed()
		}

		if col >= 0 && col < len(row) {
			raw := row[col]
			d, ok := parser.Parse(raw)
			switch {
			case ok:
				totalMinutes += d.TotalMinutes()
				res.Parsed++
			case opts.OnParseError == TreatAsZero:
				res.Zeroed++
				logger.Debug("no duration in cell, counting as zero",
					slog.Int("line", lineOf(src)),
					slog.String("value", raw))
			default:
				return res, &ParseError{Column: opts.Column, Line: lineOf(src), Value: raw}
			}
		}

		if err := dst.Write(row); err != nil {
			return res, fmt.Errorf("write row: %w", err)
		}
		res.Rows++
	}

	if !opts.Aggregate {
		return res, nil
	}

	res.Total = duration.FromMinutes(totalMinutes)
	if err := dst.Write(SummaryRow(header, opts.Column, res.Total)); err != nil {
		return res, fmt.Errorf("write summary row: %w", err)
	}

	logger.Info("summed duration column",
		slog.String("column", opts.Column),
		slog.Int("rows", res.Rows),
		slog.Int("zeroed", res.Zeroed),
		slog.String("total", res.Total.String()))
	return res, nil
}

// SummaryRow builds a row shaped like header that is empty except for the
// target column.
func SummaryRow(header table.Header, column string, total duration.Duration) table.Row {
	row := make(table.Row, len(header))
	if i := header.Index(column); i >= 0 {
		row[i] = total.String()
	}
	return row
}

func lineOf(src Source) int {
	if lr, ok := src.(lineReporter); ok {
		return lr.Line()
	}
	return 0
}
