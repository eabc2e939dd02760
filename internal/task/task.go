package task

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Zuo-Peng/csvtool/internal/rewrite"
	"github.com/Zuo-Peng/csvtool/internal/table"
)

// ErrFileAccess matches any FileAccessError.
var ErrFileAccess = errors.New("file access")

// ErrSameFile is returned when the output path names the input file.
var ErrSameFile = errors.New("output would overwrite the input")

type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot access %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

func (e *FileAccessError) Is(target error) bool { return target == ErrFileAccess }

type Kind int

const (
	SumDuration Kind = iota
	Rewrite
)

func (k Kind) String() string {
	switch k {
	case SumDuration:
		return "sum-duration"
	case Rewrite:
		return "rewrite"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Task struct {
	Kind    Kind
	Column  string
	InFile  string
	OutFile string

	Delimiter      rune
	NormalizeCells bool
	OnParseError   rewrite.Policy
	Logger         *slog.Logger
}

// Execute runs the task from InFile to OutFile. The output is flushed and
// both files are closed on every return path. A non-nil error means the
// output file must not be trusted.
func (t Task) Execute() (res rewrite.Result, err error) {
	logger := t.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	delim := t.Delimiter
	if delim == 0 {
		delim = ','
	}

	in, err := os.Open(t.InFile)
	if err != nil {
		return res, &FileAccessError{Path: t.InFile, Err: err}
	}
	defer in.Close()

	if same, serr := sameFile(in, t.OutFile); serr == nil && same {
		return res, &FileAccessError{Path: t.OutFile, Err: ErrSameFile}
	}

	out, err := os.Create(t.OutFile)
	if err != nil {
		return res, &FileAccessError{Path: t.OutFile, Err: err}
	}

	w := table.NewWriter(out, delim)
	defer func() {
		if ferr := w.Flush(); ferr != nil {
			err = errors.Join(err, fmt.Errorf("flush %s: %w", t.OutFile, ferr))
		}
		if cerr := out.Close(); cerr != nil {
			err = errors.Join(err, &FileAccessError{Path: t.OutFile, Err: cerr})
		}
	}()

	logger.Debug("task started",
		slog.String("task", t.Kind.String()),
		slog.String("infile", t.InFile),
		slog.String("outfile", t.OutFile))

	res, err = rewrite.Process(table.NewReader(in, delim), w, rewrite.Options{
		Column:         t.Column,
		Aggregate:      t.Kind == SumDuration,
		NormalizeCells: t.NormalizeCells,
		OnParseError:   t.OnParseError,
		Logger:         logger,
	})
	if err != nil {
		logger.Error("task failed",
			slog.String("task", t.Kind.String()),
			slog.String("infile", t.InFile),
			slog.String("error", err.Error()))
		return res, fmt.Errorf("%s %s: %w", t.Kind, t.InFile, err)
	}
	return res, nil
}

// sameFile reports whether path already exists and is the file open as in.
func sameFile(in *os.File, path string) (bool, error) {
	outInfo, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	inInfo, err := in.Stat()
	if err != nil {
		return false, err
	}
	return os.SameFile(inInfo, outInfo), nil
}
