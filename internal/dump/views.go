package dump

import "context"

// emitViews walks §4.5 stage 8's two-pass view handling: every view gets
// its column-shaped stand-in table written first (so any table or other
// view referencing it resolves on replay), then every stand-in is dropped
// and replaced by the view's real definition. Both passes are already
// restricted to s.views, which enumerate filtered through exclude-tables.
func (s *Session) emitViews(ctx context.Context, w *writer) error {
	if s.opts.NoCreateInfo {
		return nil
	}

	for _, view := range s.views {
		cols, err := s.adapter.Columns(ctx, view)
		if err != nil {
			return queryErr(view, err)
		}
		w.str(s.adapter.CreateViewStandinDDL(view, cols))
	}
	w.blankLine()

	for _, view := range s.views {
		w.printf("DROP TABLE IF EXISTS %s;\n", s.adapter.QuoteIdentifier(view))
		ddl, err := s.adapter.CreateViewDDL(ctx, view, s.opts.SkipDefiner)
		if err != nil {
			return queryErr(view, err)
		}
		w.str(ddl)
		w.blankLine()
	}

	return w.err
}
