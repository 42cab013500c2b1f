package dump

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// writePreamble writes the header comment block and the backup_parameters
// session statements, per §4.5 stage 3.
func (s *Session) writePreamble(ctx context.Context, w *writer) error {
	version, err := s.adapter.ServerVersion(ctx)
	if err != nil {
		return queryErr("server version", err)
	}

	w.comment(s.opts.SkipComments, fmt.Sprintf("sqldump %s", s.dbName))
	w.comment(s.opts.SkipComments, "------------------------------------------------------")
	w.comment(s.opts.SkipComments, fmt.Sprintf("Server version\t%s", version))
	if !s.opts.SkipDumpDate {
		w.comment(s.opts.SkipComments, fmt.Sprintf("Dump started on %s", dumpTimestamp()))
	}
	w.blankLine()

	for _, stmt := range s.adapter.BackupParametersSQL(s.opts.DefaultCharacterSet, s.opts.SkipTZUTC) {
		w.str(stmt)
		w.str("\n")
	}
	w.blankLine()

	s.log.Info("preamble written", zap.String("server_version", version))
	return w.err
}

// writeDatabaseWrapper emits the CREATE DATABASE / DROP DATABASE / USE
// bracket of §4.5 stage 4, gated on the databases option.
func (s *Session) writeDatabaseWrapper(ctx context.Context, w *writer) error {
	if !s.opts.Databases {
		return nil
	}

	charset, collation, err := s.adapter.DatabaseCharsetCollation(ctx, s.dbName)
	if err != nil {
		return queryErr("database charset/collation", err)
	}

	if s.opts.AddDropDatabase {
		w.str(s.adapter.DropDatabaseSQL(s.dbName))
		w.str("\n")
	}
	w.str(s.adapter.CreateDatabaseSQL(s.dbName, charset, collation, true))
	w.str("\n")
	w.str(s.adapter.UseSQL(s.dbName))
	w.str("\n\n")

	return w.err
}

// writePostamble writes restore_parameters and the footer comment, per §4.5
// stage 9. Closing the sink itself is the caller's (Run's) responsibility.
func (s *Session) writePostamble(w *writer) error {
	for _, stmt := range s.adapter.RestoreParametersSQL(s.opts.SkipTZUTC) {
		w.str(stmt)
		w.str("\n")
	}
	w.blankLine()

	if !s.opts.SkipDumpDate {
		w.comment(s.opts.SkipComments, fmt.Sprintf("Dump completed on %s", dumpTimestamp()))
	}

	s.log.Info("postamble written")
	return w.err
}

// dumpTimestamp formats the current wall-clock time for the header's
// "started" line and the footer's "completed" line; each call reads the
// clock anew, so the two lines show different times.
func dumpTimestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
