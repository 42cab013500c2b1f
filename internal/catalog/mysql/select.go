package mysql

import (
	"fmt"
	"strings"

	"sqldump/internal/catalog"
	"sqldump/internal/coltype"
)

// BuildRowSelect composes the SELECT the row-emit loop issues for table,
// per §4.6: bit columns project as a zero-padded hex string, other BLOB
// columns project as plain hex, virtual columns are omitted entirely
// (their value is never stored), and everything else projects as itself.
func (a *Adapter) BuildRowSelect(table string, cols []coltype.Descriptor, opts catalog.RowSelectOptions) string {
	projections := make([]string, 0, len(cols))
	for _, c := range cols {
		if c.IsVirtual {
			continue
		}
		q := a.QuoteIdentifier(c.Name)
		switch {
		case opts.HexBlob && c.Type == "bit":
			projections = append(projections, fmt.Sprintf("LPAD(HEX(%s),2,'0') AS %s", q, q))
		case opts.HexBlob && c.IsBlob:
			projections = append(projections, fmt.Sprintf("HEX(%s) AS %s", q, q))
		default:
			projections = append(projections, q)
		}
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s", strings.Join(projections, ", "), a.QuoteIdentifier(table))

	if len(opts.KeepDataIn) > 0 {
		quoted := make([]string, len(opts.KeepDataIn))
		for i, v := range opts.KeepDataIn {
			quoted[i] = a.QuoteString(v)
		}
		return fmt.Sprintf("%s WHERE %s IN (%s)", stmt, a.QuoteIdentifier(opts.KeepDataCol), strings.Join(quoted, ", "))
	}

	if opts.Where != "" {
		return fmt.Sprintf("%s WHERE %s", stmt, opts.Where)
	}

	return stmt
}
