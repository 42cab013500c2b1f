package dump

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"sqldump/internal/coltype"
	"sqldump/internal/match"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriterStickyError(t *testing.T) {
	w := newWriter(failingWriter{})
	w.str("a")
	assert.Error(t, w.err)

	// Once w.err is set, further calls are no-ops: confirm nothing panics
	// and the error is unchanged.
	firstErr := w.err
	w.printf("b %d", 1)
	w.comment(false, "c")
	assert.Equal(t, firstErr, w.err)
}

func TestWriterComment(t *testing.T) {
	var buf bytes.Buffer
	w := newWriter(&buf)
	w.comment(false, "hello")
	assert.Equal(t, "-- hello\n", buf.String())

	buf.Reset()
	w = newWriter(&buf)
	w.comment(true, "hello")
	assert.Equal(t, "", buf.String())
}

type fakeQuoter struct{}

func (fakeQuoter) QuoteIdentifier(name string) string { return "`" + name + "`" }

func TestInsertHeaderCompleteInsert(t *testing.T) {
	cols := []coltype.Descriptor{{Name: "id"}, {Name: "name"}}
	got := insertHeader(fakeQuoter{}, "widgets", cols, true, false)
	assert.Equal(t, "INSERT INTO `widgets` (`id`, `name`)", got)
}

func TestInsertHeaderIgnoreNoColumns(t *testing.T) {
	cols := []coltype.Descriptor{{Name: "id"}}
	got := insertHeader(fakeQuoter{}, "widgets", cols, false, true)
	assert.Equal(t, "INSERT IGNORE INTO `widgets`", got)
}

func TestValueForEncode(t *testing.T) {
	v, null := valueForEncode(nil)
	assert.True(t, null)
	assert.Equal(t, "", v)

	v, null = valueForEncode("x")
	assert.False(t, null)
	assert.Equal(t, "x", v)

	v, null = valueForEncode(42)
	assert.False(t, null)
	assert.Equal(t, "42", v)
}

func TestFilterNames(t *testing.T) {
	include, err := match.New([]string{"a", "/^tmp_/"})
	assert.NoError(t, err)
	exclude, err := match.New([]string{"tmp_old"})
	assert.NoError(t, err)

	got := filterNames([]string{"a", "b", "tmp_new", "tmp_old"}, include, exclude)
	assert.Equal(t, []string{"a", "tmp_new"}, got)
}

func TestMissingLiterals(t *testing.T) {
	include, err := match.New([]string{"users", "orders"})
	assert.NoError(t, err)

	got := missingLiterals(include, []string{"users"})
	assert.Equal(t, []string{"orders"}, got)

	got = missingLiterals(include, []string{"users", "orders"})
	assert.Empty(t, got)
}

func TestMatchesList(t *testing.T) {
	assert.True(t, matchesList([]string{"a", "b"}, "b"))
	assert.False(t, matchesList([]string{"a", "b"}, "c"))
}
