package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sqldump/internal/coltype"
)

func TestCell(t *testing.T) {
	q := EscapeString{}
	numeric := coltype.Classify("a", "int(11)", "")
	blob := coltype.Classify("b", "blob", "")
	bit := coltype.Classify("c", "bit(8)", "")
	text := coltype.Classify("d", "varchar(255)", "")

	tests := []struct {
		name  string
		value string
		null  bool
		d     coltype.Descriptor
		opts  Options
		want  string
	}{
		{"null always wins", "ignored", true, text, Options{HexBlob: true}, "NULL"},
		{"numeric unquoted", "42", false, numeric, Options{}, "42"},
		{"hex blob non-empty", "DEADBEEF", false, blob, Options{HexBlob: true}, "0xDEADBEEF"},
		{"hex blob empty", "", false, blob, Options{HexBlob: true}, "''"},
		{"hex bit empty still hex", "", false, bit, Options{HexBlob: true}, "0x"},
		{"blob without hex-blob quotes", "abc", false, blob, Options{HexBlob: false}, "'abc'"},
		{"string quoted", "O'Brien", false, text, Options{}, "'O''Brien'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cell(tt.value, tt.null, tt.d, tt.opts, q))
		})
	}
}

func TestEscapeString(t *testing.T) {
	q := EscapeString{}
	assert.Equal(t, `'it''s\n\r\\\0\Z'`, q.QuoteString("it's\n\r\\\x00\x1A"))
}
