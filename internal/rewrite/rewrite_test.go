package rewrite

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Zuo-Peng/csvtool/internal/duration"
	"github.com/Zuo-Peng/csvtool/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string, opts Options) (string, Result, error) {
	t.Helper()
	var buf bytes.Buffer
	w := table.NewWriter(&buf, ',')
	res, err := Process(table.NewReader(strings.NewReader(input), ','), w, opts)
	require.NoError(t, w.Flush())
	return buf.String(), res, err
}

func TestProcess_SumsDurationColumn(t *testing.T) {
	in := "task,duration,note\na,1:30,x\nb,0:45,y\nc,2:00,z\n"

	out, res, err := run(t, in, Options{Column: "duration", Aggregate: true})
	require.NoError(t, err)

	assert.Equal(t, in+",4:15,\n", out)
	assert.Equal(t, duration.Duration{Hours: 4, Minutes: 15}, res.Total)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 3, res.Parsed)
	assert.True(t, res.ColumnFound)
}

func TestProcess_HeaderOnly(t *testing.T) {
	out, res, err := run(t, "a,duration\n", Options{Column: "duration", Aggregate: true})
	require.NoError(t, err)
	assert.Equal(t, "a,duration\n,0:00\n", out)
	assert.Equal(t, 0, res.Rows)
}

func TestProcess_MissingColumnPassesThrough(t *testing.T) {
	in := "a,b\n1,2\n3,4\n"
	out, res, err := run(t, in, Options{Column: "duration", Aggregate: true})
	require.NoError(t, err)
	assert.Equal(t, in+",\n", out)
	assert.False(t, res.ColumnFound)
	assert.Equal(t, duration.Duration{}, res.Total)
}

func TestProcess_StrictPolicyAborts(t *testing.T) {
	in := "task,duration\na,1:00\nb,abc\nc,2:00\n"
	out, res, err := run(t, in, Options{Column: "duration", Aggregate: true, OnParseError: Abort})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParsing))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "abc", pe.Value)
	assert.Equal(t, "duration", pe.Column)
	assert.Equal(t, 3, pe.Line)

	// the bad row and the summary are never written
	assert.Equal(t, "task,duration\na,1:00\n", out)
	assert.Equal(t, 1, res.Rows)
}

func TestProcess_LenientPolicyCountsZero(t *testing.T) {
	in := "task,duration\na,1:00\nb,abc\nc,\nd,0:20\n"
	out, res, err := run(t, in, Options{Column: "duration", Aggregate: true, OnParseError: TreatAsZero})
	require.NoError(t, err)

	assert.Equal(t, in+",1:20\n", out)
	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, 2, res.Parsed)
	assert.Equal(t, 2, res.Zeroed)
}

func TestProcess_NormalizeCells(t *testing.T) {
	in := "name,duration\n  alice , 1:10 \nbob,\t0:50\n"
	out, res, err := run(t, in, Options{Column: "duration", Aggregate: true, NormalizeCells: true})
	require.NoError(t, err)
	assert.Equal(t, "name,duration\nalice,1:10\nbob,0:50\n,2:00\n", out)
	assert.Equal(t, duration.Duration{Hours: 2}, res.Total)
}

func TestProcess_UnnormalizedMinutesRollOver(t *testing.T) {
	out, _, err := run(t, "d\n0:50\n0:50\n1:75\n", Options{Column: "d", Aggregate: true})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "3:55\n"), out)
}

func TestProcess_RewriteModeRoundTrip(t *testing.T) {
	in := "a,b,c\n1,\"x, y\",3\npadded  ,,z\n"
	out, res, err := run(t, in, Options{})
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, 2, res.Rows)
}

func TestProcess_RewriteModeTrims(t *testing.T) {
	out, _, err := run(t, "a,b\n 1 , 2 \n", Options{NormalizeCells: true})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", out)
}

func TestProcess_SummingTwiceIsStable(t *testing.T) {
	in := "k,duration\na,1:30\nb,0:45\n"
	first, res1, err := run(t, in, Options{Column: "duration", Aggregate: true})
	require.NoError(t, err)

	// drop the summary row before summing again
	lines := strings.Split(strings.TrimSuffix(first, "\n"), "\n")
	again := strings.Join(lines[:len(lines)-1], "\n") + "\n"

	_, res2, err := run(t, again, Options{Column: "duration", Aggregate: true})
	require.NoError(t, err)
	assert.Equal(t, res1.Total, res2.Total)
}

func TestProcess_RaggedRowIsFormatError(t *testing.T) {
	_, _, err := run(t, "a,duration\n1,1:00\n2\n", Options{Column: "duration", Aggregate: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, table.ErrTableFormat))
}

func TestSummaryRow(t *testing.T) {
	row := SummaryRow(table.Header{"a", "b", "c"}, "b", duration.Duration{Hours: 3, Minutes: 5})
	assert.Equal(t, table.Row{"", "3:05", ""}, row)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
		err  bool
	}{
		{"", Abort, false},
		{"abort", Abort, false},
		{"Strict", Abort, false},
		{"zero", TreatAsZero, false},
		{"lenient", TreatAsZero, false},
		{"skip", Abort, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "zero", TreatAsZero.String())
}

func TestProcess_NormalizeCellsTrimsHeader(t *testing.T) {
	out, res, err := run(t, "k, duration\na, 1:00\n", Options{Column: "duration", Aggregate: true, NormalizeCells: true})
	require.NoError(t, err)
	assert.True(t, res.ColumnFound)
	assert.Equal(t, "k,duration\na,1:00\n,1:00\n", out)
}

func TestProcess_BOMBeforeTargetColumn(t *testing.T) {
	out, res, err := run(t, "\ufeffduration,k\n0:30,a\n", Options{Column: "duration", Aggregate: true})
	require.NoError(t, err)
	assert.True(t, res.ColumnFound)
	assert.Equal(t, "duration,k\n0:30,a\n0:30,\n", out)
}
