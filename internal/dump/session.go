// Package dump implements the Dump Engine: the staged pipeline that drives
// a catalog.Adapter from a live connection to a finished sink, and the
// per-table row-emit loop that fills in the data section of each table.
package dump

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sqldump/internal/catalog"
	"sqldump/internal/dsn"
	"sqldump/internal/hook"
	"sqldump/internal/sink"
)

// Config is everything one Run needs: where to connect, where to write, and
// how. NewAdapter resolves the dialect named in DSN to a concrete
// catalog.Adapter; keeping that resolution outside this package is what
// lets the engine stay dialect-agnostic even though only one dialect
// (mysql) ships a concrete Adapter today.
type Config struct {
	DSN    string
	Output string

	Options Options
	Hook    hook.Cell
	Logger  *zap.Logger

	NewAdapter func(dialect dsn.Dialect) (catalog.Adapter, error)
}

// minFreeBytes is the floor CheckCapacity warns under before a filesystem
// sink is opened. A fixed floor rather than a multiple of the source
// database's reported size, since reading that size would cost another
// round trip the preflight check isn't worth spending.
const minFreeBytes = 64 * 1024 * 1024

// Session is a single dump run's state: the live adapter, the sink it
// writes to, the frozen options, and the object lists built during
// enumeration. A Session is used once and discarded.
type Session struct {
	adapter catalog.Adapter
	sink    sink.Sink
	opts    Options
	hook    hook.Cell
	log     *zap.Logger
	runID   uuid.UUID

	dbName    string
	txStarted bool

	tables     []string
	views      []string
	triggers   []string
	procedures []string
	events     []string
}

// Run executes one dump to completion: connect, open the configured sink,
// walk the staged pipeline of §4.5, and close the sink. Any stage failure
// aborts the run immediately and is returned as a *dump.Error; partial
// output already written to the sink is left in place, per §7.
func Run(ctx context.Context, cfg Config) error {
	return run(ctx, cfg, nil)
}

// RunTo is Run with the sink already decided by the caller: cfg.Output and
// cfg.Options.Compress are ignored, and w is written to directly, never
// closed. This exists for embedding the engine in a process that already
// owns its destination (an HTTP response, an in-memory buffer in a test)
// without going through the filesystem-oriented Sink construction.
func RunTo(ctx context.Context, cfg Config, w io.Writer) error {
	return run(ctx, cfg, w)
}

func run(ctx context.Context, cfg Config, external io.Writer) (err error) {
	opts := cfg.Options
	if err := opts.Resolve(); err != nil {
		return err
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.New()
	log = log.With(zap.String("run_id", runID.String()))

	parsed, perr := dsn.Parse(cfg.DSN)
	if perr != nil {
		return configErr("dsn", perr)
	}
	if cfg.NewAdapter == nil {
		return configErr("dsn", fmt.Errorf("no adapter factory configured"))
	}
	adapter, aerr := cfg.NewAdapter(parsed.Dialect)
	if aerr != nil {
		return configErr("dsn", aerr)
	}

	log.Info("connecting", zap.String("dialect", string(parsed.Dialect)), zap.String("dbname", parsed.DBName()))
	if err := adapter.Connect(ctx, parsed.Attrs); err != nil {
		return connectionErr("", err)
	}
	defer func() {
		if cerr := adapter.Close(); cerr != nil && err == nil {
			err = connectionErr("", cerr)
		}
	}()

	if err := adapter.ExecSessionDefaults(ctx, opts.DefaultCharacterSet, opts.SkipTZUTC); err != nil {
		return connectionErr("session defaults", err)
	}
	for _, cmd := range opts.InitCommands {
		if err := adapter.ExecStatement(ctx, cmd); err != nil {
			return connectionErr("init_commands", err)
		}
	}

	var out sink.Sink
	if external != nil {
		out = nopCloseSink{external}
	} else {
		sink.CheckCapacity(ctx, cfg.Output, minFreeBytes, log)
		opened, serr := sink.Open(cfg.Output, opts.Compress)
		if serr != nil {
			return sinkErr(cfg.Output, serr)
		}
		out = opened
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = sinkErr(cfg.Output, cerr)
		}
	}()

	s := &Session{
		adapter: adapter,
		sink:    out,
		opts:    opts,
		hook:    cfg.Hook,
		log:     log,
		runID:   runID,
		dbName:  parsed.DBName(),
	}

	return s.run(ctx)
}

// nopCloseSink adapts a plain io.Writer to the Sink interface for RunTo,
// where closing the underlying writer is the caller's business, not the
// engine's.
type nopCloseSink struct{ io.Writer }

func (nopCloseSink) Close() error { return nil }

// run walks the staged pipeline once the connection and sink are both
// live. Split out of Run so the defers that close them always execute
// regardless of which stage fails.
func (s *Session) run(ctx context.Context) error {
	w := newWriter(s.sink)

	if err := s.writePreamble(ctx, w); err != nil {
		return err
	}
	if err := s.writeDatabaseWrapper(ctx, w); err != nil {
		return err
	}
	if err := s.enumerate(ctx); err != nil {
		return err
	}
	if err := s.validateIncludeLists(); err != nil {
		return err
	}
	if err := s.emitTables(ctx, w); err != nil {
		return err
	}
	if err := s.emitTriggers(ctx, w); err != nil {
		return err
	}
	if err := s.emitViews(ctx, w); err != nil {
		return err
	}
	if err := s.emitProcedures(ctx, w); err != nil {
		return err
	}
	if err := s.emitEvents(ctx, w); err != nil {
		return err
	}
	if err := s.writePostamble(w); err != nil {
		return err
	}

	if w.err != nil {
		return w.err
	}
	return nil
}
