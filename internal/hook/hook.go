// Package hook defines the optional per-cell transform a caller can plug
// into a dump session before a value is encoded.
package hook

// Cell is invoked with the table and column name, the raw cell value (as
// produced by the catalog adapter, before encoding), and the full row it
// belongs to. It returns the (possibly transformed) value that continues
// on to the Value Encoder. The encoder still drives classification off the
// column descriptor: a hook cannot re-classify a column as numeric or
// BLOB, only change the value flowing through it.
type Cell func(table, column string, value any, row []any) any

// Identity is the no-op hook used when the caller supplies none. Calling
// code should compare its configured hook against nil rather than always
// calling through Identity, keeping the common no-hook path allocation
// free.
func Identity(_, _ string, value any, _ []any) any {
	return value
}

// Apply runs fn over value when fn is non-nil, otherwise returns value
// unchanged. This is the fast path the dump engine's row loop calls on
// every cell.
func Apply(fn Cell, table, column string, value any, row []any) any {
	if fn == nil {
		return value
	}
	return fn(table, column, value, row)
}
