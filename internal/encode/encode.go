// Package encode turns a single row cell into the SQL literal text that
// belongs inside an INSERT statement's VALUES list, given the column's
// type classification and the dump's active options.
package encode

import (
	"strings"

	"sqldump/internal/coltype"
)

// Quoter produces a dialect-correct quoted string literal for a value,
// escaping embedded quotes/backslashes. The MySQL catalog adapter supplies
// the concrete implementation; keeping it as an injected dependency here
// means the encoder never needs to know about a driver or a live
// connection.
type Quoter interface {
	QuoteString(value string) string
}

// Options is the subset of the dump's frozen option set the encoder reads.
type Options struct {
	HexBlob bool
}

// Cell encodes one value for column d under opts using q to quote strings.
// null reports whether the cell is SQL NULL; the caller (the row-emit loop)
// is responsible for reading that out of the scanned value's Valid flag
// before calling Cell, since "NULL" has no representation as a Go
// string value coming back from database/sql.
func Cell(value string, null bool, d coltype.Descriptor, opts Options, q Quoter) string {
	if null {
		return "NULL"
	}

	if opts.HexBlob && d.IsBlob {
		if d.Type == "bit" || value != "" {
			return "0x" + value
		}
		return "''"
	}

	if d.IsNumeric {
		return value
	}

	return q.QuoteString(value)
}

// EscapeString is a dependency-free fallback quoting routine following the
// same escape table as the MySQL CLI client (', \, NUL, \n, \r, Ctrl+Z).
// It exists so packages that need a Quoter without wiring up a catalog
// adapter (tests, tools that only touch the encoder) have one available;
// the catalog adapter's own QuoteString is preferred in the real pipeline.
type EscapeString struct{}

func (EscapeString) QuoteString(value string) string {
	var b strings.Builder
	b.Grow(len(value) + len(value)/10 + 2)
	b.WriteByte('\'')
	for _, c := range value {
		switch c {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		case '\x00':
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\x1A':
			b.WriteString(`\Z`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
