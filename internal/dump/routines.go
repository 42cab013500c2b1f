package dump

import "context"

// emitTriggers walks §4.5 stage 8's first object kind: one DROP/CREATE per
// enumerated trigger.
func (s *Session) emitTriggers(ctx context.Context, w *writer) error {
	if s.opts.NoCreateInfo {
		return nil
	}
	for _, trigger := range s.triggers {
		if s.opts.AddDropTrigger {
			w.printf("DROP TRIGGER IF EXISTS %s;\n", s.adapter.QuoteIdentifier(trigger))
		}
		ddl, err := s.adapter.CreateTriggerDDL(ctx, trigger, s.opts.SkipDefiner)
		if err != nil {
			return queryErr(trigger, err)
		}
		w.str(ddl)
		w.blankLine()
	}
	return w.err
}

// emitProcedures walks the procedures object kind. CreateProcedureDDL
// already renders its own DROP PROCEDURE IF EXISTS, so nothing extra is
// written here.
func (s *Session) emitProcedures(ctx context.Context, w *writer) error {
	if s.opts.NoCreateInfo {
		return nil
	}
	for _, proc := range s.procedures {
		ddl, err := s.adapter.CreateProcedureDDL(ctx, proc, s.opts.SkipDefiner)
		if err != nil {
			return queryErr(proc, err)
		}
		w.str(ddl)
		w.blankLine()
	}
	return w.err
}

// emitEvents walks the events object kind.
func (s *Session) emitEvents(ctx context.Context, w *writer) error {
	if s.opts.NoCreateInfo {
		return nil
	}
	for _, event := range s.events {
		ddl, err := s.adapter.CreateEventDDL(ctx, event, s.opts.SkipDefiner)
		if err != nil {
			return queryErr(event, err)
		}
		w.str(ddl)
		w.blankLine()
	}
	return w.err
}
