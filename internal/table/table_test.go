package table

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_HeaderAndRows(t *testing.T) {
	r := NewReader(strings.NewReader("name,duration\nalice,1:30\nbob,0:45\n"), ',')

	h, err := r.Header()
	require.NoError(t, err)
	assert.Equal(t, Header{"name", "duration"}, h)

	row, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, Row{"alice", "1:30"}, row)
	assert.Equal(t, 2, r.Line())

	row, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, Row{"bob", "0:45"}, row)

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReader_ReadBeforeHeaderConsumesHeader(t *testing.T) {
	r := NewReader(strings.NewReader("a;b\n1;2\n"), ';')

	row, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, Row{"1", "2"}, row)

	h, err := r.Header()
	require.NoError(t, err)
	assert.Equal(t, Header{"a", "b"}, h)
}

func TestReader_EmptyInput(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), ',').Header()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTableFormat))
}

func TestReader_RaggedRow(t *testing.T) {
	r := NewReader(strings.NewReader("a,b\n1,2\n3\n"), ',')
	_, err := r.Read()
	require.NoError(t, err)

	_, err = r.Read()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTableFormat))

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 3, fe.Line)
}

func TestHeader_Index(t *testing.T) {
	h := Header{"date", "task", "duration"}
	assert.Equal(t, 2, h.Index("duration"))
	assert.Equal(t, 0, h.Index("date"))
	assert.Equal(t, -1, h.Index("Duration"))
}

func TestRow_TrimmedCopies(t *testing.T) {
	r := Row{"  a ", "\tb\n", "c"}
	got := r.Trimmed()
	assert.Equal(t, Row{"a", "b", "c"}, got)
	assert.Equal(t, "  a ", r[0])
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, ',')
	require.NoError(t, w.WriteHeader(Header{"a", "b"}))
	require.NoError(t, w.Write(Row{"x, y", ""}))
	assert.Empty(t, buf.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, "a,b\n\"x, y\",\n", buf.String())
}

func TestReader_StripsBOM(t *testing.T) {
	h, err := NewReader(strings.NewReader("\ufeffa,b\n1,2\n"), ',').Header()
	require.NoError(t, err)
	assert.Equal(t, Header{"a", "b"}, h)
	assert.Equal(t, 0, h.Index("a"))
}

func TestHeader_TrimmedCopies(t *testing.T) {
	h := Header{" a", "b "}
	assert.Equal(t, Header{"a", "b"}, h.Trimmed())
	assert.Equal(t, " a", h[0])
}
