package dump

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sqldump/internal/match"
)

// enumerate builds the five ordered object lists of §3/§4.5 stage 5
// (tables, views, triggers, procedures, events), filtering table and view
// names through the Name Matcher as it goes so the rest of the pipeline
// never has to re-check inclusion. Trigger, procedure and event names are
// kept unfiltered.
func (s *Session) enumerate(ctx context.Context) error {
	tables, err := s.adapter.ListTables(ctx, s.dbName)
	if err != nil {
		return queryErr("list tables", err)
	}
	s.tables = filterNames(tables, s.opts.includeTableMatcher, s.opts.excludeTableMatcher)

	views, err := s.adapter.ListViews(ctx, s.dbName)
	if err != nil {
		return queryErr("list views", err)
	}
	s.views = filterNames(views, s.opts.includeViewMatcher, s.opts.excludeTableMatcher)

	if !s.opts.SkipTriggers {
		triggers, err := s.adapter.ListTriggers(ctx, s.dbName)
		if err != nil {
			return queryErr("list triggers", err)
		}
		s.triggers = triggers
	}

	if s.opts.Routines {
		procedures, err := s.adapter.ListProcedures(ctx, s.dbName)
		if err != nil {
			return queryErr("list procedures", err)
		}
		s.procedures = procedures
	}

	if s.opts.Events {
		events, err := s.adapter.ListEvents(ctx, s.dbName)
		if err != nil {
			return queryErr("list events", err)
		}
		s.events = events
	}

	s.log.Info("enumerated catalog",
		zap.Int("tables", len(s.tables)), zap.Int("views", len(s.views)),
		zap.Int("triggers", len(s.triggers)), zap.Int("procedures", len(s.procedures)),
		zap.Int("events", len(s.events)))
	return nil
}

func filterNames(names []string, include, exclude *match.List) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if match.Filter(n, include, exclude) {
			out = append(out, n)
		}
	}
	return out
}

// validateIncludeLists enforces §3's invariant: any literal include-tables
// (or include-views) entry that enumeration never matched is a fatal
// ConfigError, since it almost certainly names a typo or a table that
// doesn't exist.
func (s *Session) validateIncludeLists() error {
	if missing := missingLiterals(s.opts.includeTableMatcher, s.tables); len(missing) > 0 {
		return configErr("include-tables", fmt.Errorf("not found in catalog: %v", missing))
	}
	if missing := missingLiterals(s.opts.includeViewMatcher, s.views); len(missing) > 0 {
		return configErr("include-views", fmt.Errorf("not found in catalog: %v", missing))
	}
	return nil
}

func missingLiterals(include *match.List, found []string) []string {
	literals := include.Literals()
	if len(literals) == 0 {
		return nil
	}
	present := make(map[string]bool, len(found))
	for _, f := range found {
		present[f] = true
	}
	var missing []string
	for _, l := range literals {
		if !present[l] {
			missing = append(missing, l)
		}
	}
	return missing
}
