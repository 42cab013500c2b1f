package dump

import (
	"context"

	"go.uber.org/zap"
)

// emitTables walks §4.5 stage 7: DROP/CREATE/row-data for every enumerated,
// non-excluded table.
func (s *Session) emitTables(ctx context.Context, w *writer) error {
	for _, table := range s.tables {
		if err := s.emitOneTable(ctx, w, table); err != nil {
			return err
		}
	}
	return s.closeTransaction(ctx)
}

func (s *Session) emitOneTable(ctx context.Context, w *writer, table string) error {
	cols, err := s.adapter.Columns(ctx, table)
	if err != nil {
		return queryErr(table, err)
	}

	w.comment(s.opts.SkipComments, "Table structure for table "+s.adapter.QuoteIdentifier(table))
	if s.opts.AddDropTable {
		w.printf("DROP TABLE IF EXISTS %s;\n", s.adapter.QuoteIdentifier(table))
	}

	if !s.opts.NoCreateInfo {
		ddl, err := s.adapter.CreateTableDDL(ctx, table, s.opts.ResetAutoIncrement)
		if err != nil {
			return queryErr(table, err)
		}
		w.str(ddl)
	}
	w.blankLine()

	if s.opts.NoData || matchesList(s.opts.NoDataList, table) {
		s.log.Info("skipping table data", zap.String("table", table))
		return w.err
	}

	return s.emitRows(ctx, w, table, cols)
}

func matchesList(list []string, name string) bool {
	for _, l := range list {
		if l == name {
			return true
		}
	}
	return false
}
