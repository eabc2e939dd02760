package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrTableFormat matches any FormatError.
var ErrTableFormat = errors.New("malformed table")

// FormatError reports a structural problem in the input, such as a ragged
// row or a broken quote.
type FormatError struct {
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed table at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed table: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrTableFormat }

// Header is the ordered list of column names.
type Header []string

// Index returns the position of the named column, or -1.
func (h Header) Index(name string) int {
	for i, c := range h {
		if c == name {
			return i
		}
	}
	return -1
}

// Trimmed returns a copy of h with surrounding whitespace removed from
// every name.
func (h Header) Trimmed() Header {
	return Header(Row(h).Trimmed())
}

// Row holds one record's cells in header order.
type Row []string

// Trimmed returns a copy of r with surrounding whitespace removed from
// every cell.
func (r Row) Trimmed() Row {
	out := make(Row, len(r))
	for i, c := range r {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

type Reader struct {
	r      *csv.Reader
	header Header
	line   int
}

func NewReader(r io.Reader, delimiter rune) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	return &Reader{r: cr}
}

// Header reads the first record on the first call and returns it on every
// call after that.
func (r *Reader) Header() (Header, error) {
	if r.header != nil {
		return r.header, nil
	}
	rec, err := r.r.Read()
	if err == io.EOF {
		return nil, &FormatError{Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, wrapCSVError(err)
	}
	r.line = 1
	if len(rec) > 0 {
		rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
	}
	r.header = Header(rec)
	return r.header, nil
}

// Read returns the next data row, or io.EOF when the input is exhausted.
func (r *Reader) Read() (Row, error) {
	if r.header == nil {
		if _, err := r.Header(); err != nil {
			return nil, err
		}
	}
	rec, err := r.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, wrapCSVError(err)
	}
	r.line, _ = r.r.FieldPos(0)
	return Row(rec), nil
}

// Line is the input line of the most recently read record.
func (r *Reader) Line() int {
	return r.line
}

func wrapCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &FormatError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("read table: %w", err)
}

type Writer struct {
	w *csv.Writer
}

func NewWriter(w io.Writer, delimiter rune) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	return &Writer{w: cw}
}

func (w *Writer) WriteHeader(h Header) error {
	return w.w.Write(h)
}

func (w *Writer) Write(row Row) error {
	return w.w.Write(row)
}

// Flush pushes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}
