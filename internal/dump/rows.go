package dump

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sqldump/internal/catalog"
	"sqldump/internal/coltype"
	"sqldump/internal/encode"
	"sqldump/internal/hook"
)

// ensureTransactionStarted starts the whole-dump consistent-snapshot
// transaction at most once per session: "if single-transaction not already
// active" from §4.6 is a session-wide condition, not a per-table one,
// otherwise every table after the first would restart the snapshot and the
// dump would no longer be transactionally consistent across tables.
func (s *Session) ensureTransactionStarted(ctx context.Context) error {
	if !s.opts.SingleTransaction || s.txStarted {
		return nil
	}
	if err := s.adapter.ExecStartTransaction(ctx); err != nil {
		return connectionErr("start transaction", err)
	}
	s.txStarted = true
	return nil
}

func (s *Session) closeTransaction(ctx context.Context) error {
	if !s.txStarted {
		return nil
	}
	if err := s.adapter.ExecCommit(ctx); err != nil {
		return connectionErr("commit", err)
	}
	s.txStarted = false
	return nil
}

// emitRows runs the row-emit loop of §4.6 for one table: prologue, the
// batched INSERT stream itself, then the symmetric epilogue.
func (s *Session) emitRows(ctx context.Context, w *writer, table string, cols []coltype.Descriptor) error {
	if err := s.ensureTransactionStarted(ctx); err != nil {
		return err
	}

	if s.opts.LockTables {
		if err := s.adapter.ExecLockTableReadLocal(ctx, table); err != nil {
			return connectionErr(table, err)
		}
	}

	w.comment(s.opts.SkipComments, "Dumping data for table "+s.adapter.QuoteIdentifier(table))
	if s.opts.AddLocks {
		w.str(s.adapter.LockTablesWriteSQL(table))
		w.str("\n")
	}
	if s.opts.DisableKeys {
		w.str(s.adapter.DisableKeysSQL(table))
		w.str("\n")
	}
	if s.opts.NoAutocommit {
		w.str(s.adapter.AutocommitOffSQL())
		w.str("\n")
	}

	rowErr := s.streamRows(ctx, w, table, cols)

	if s.opts.DisableKeys {
		w.str(s.adapter.EnableKeysSQL(table))
		w.str("\n")
	}
	if s.opts.AddLocks {
		w.str(s.adapter.UnlockTablesSQL())
		w.str("\n")
	}
	if s.opts.NoAutocommit {
		w.str("COMMIT;\n")
	}
	w.blankLine()

	if s.opts.LockTables {
		if err := s.adapter.ExecUnlockTables(ctx); err != nil && rowErr == nil {
			rowErr = connectionErr(table, err)
		}
	}

	return rowErr
}

func (s *Session) streamRows(ctx context.Context, w *writer, table string, cols []coltype.Descriptor) error {
	nonVirtual := make([]coltype.Descriptor, 0, len(cols))
	anyVirtual := false
	for _, c := range cols {
		if c.IsVirtual {
			anyVirtual = true
			continue
		}
		nonVirtual = append(nonVirtual, c)
	}
	completeInsert := s.opts.CompleteInsert || anyVirtual

	keepData := s.opts.KeepData[table]
	selectOpts := catalog.RowSelectOptions{
		Where:       s.opts.Where,
		HexBlob:     s.opts.HexBlob,
		KeepDataCol: keepData.Column,
		KeepDataIn:  keepData.Rows,
	}
	query := s.adapter.BuildRowSelect(table, cols, selectOpts)

	rows, err := s.adapter.QueryRows(ctx, query)
	if err != nil {
		return queryErr(table, err)
	}
	defer rows.Close()

	quoted := s.adapter // *mysql.Adapter satisfies encode.Quoter via QuoteString
	header := insertHeader(s.adapter, table, nonVirtual, completeInsert, s.opts.InsertIgnore)

	lineSize := 0
	firstInBatch := true
	rowCount := 0

	dest := make([]any, len(nonVirtual))
	scan := make([]sqlNullString, len(nonVirtual))
	for i := range dest {
		dest[i] = &scan[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return queryErr(table, err)
		}

		raw := make([]any, len(scan))
		for i, v := range scan {
			if v.Valid {
				raw[i] = v.String
			} else {
				raw[i] = nil
			}
		}

		vals := make([]string, len(nonVirtual))
		for i, c := range nonVirtual {
			cell := hook.Apply(s.hook, table, c.Name, raw[i], raw)
			value, null := valueForEncode(cell)
			vals[i] = encode.Cell(value, null, c, encode.Options{HexBlob: s.opts.HexBlob}, quoted)
		}
		tuple := "(" + strings.Join(vals, ",") + ")"

		if firstInBatch || !s.opts.ExtendedInsert {
			w.str(header)
			w.str(" VALUES ")
			w.str(tuple)
			lineSize = len(header) + len(" VALUES ") + len(tuple)
			firstInBatch = false
		} else {
			piece := "," + tuple
			w.str(piece)
			lineSize += len(piece)
		}

		if lineSize > s.opts.NetBufferLength || !s.opts.ExtendedInsert {
			w.str(";\n")
			lineSize = 0
			firstInBatch = true
		}
		rowCount++
	}
	if err := rows.Err(); err != nil {
		return queryErr(table, err)
	}

	if !firstInBatch {
		w.str(";\n")
	}

	s.log.Info("table data emitted", zap.String("table", table), zap.Int("rows", rowCount))
	return w.err
}

// identifierQuoter is the one method insertHeader needs; a local interface
// rather than the full catalog.Adapter so it can be faked trivially in
// tests that never touch a connection.
type identifierQuoter interface {
	QuoteIdentifier(name string) string
}

func insertHeader(a identifierQuoter, table string, cols []coltype.Descriptor, completeInsert, insertIgnore bool) string {
	verb := "INSERT"
	if insertIgnore {
		verb = "INSERT IGNORE"
	}

	var colList string
	if completeInsert {
		names := make([]string, len(cols))
		for i, c := range cols {
			names[i] = a.QuoteIdentifier(c.Name)
		}
		colList = fmt.Sprintf(" (%s)", strings.Join(names, ", "))
	}

	return fmt.Sprintf("%s INTO %s%s", verb, a.QuoteIdentifier(table), colList)
}

// sqlNullString mirrors database/sql.NullString; redeclared here only to
// keep this file's imports to the packages it actually needs to reason
// about encoding.
type sqlNullString struct {
	String string
	Valid  bool
}

func (n *sqlNullString) Scan(value any) error {
	if value == nil {
		n.String, n.Valid = "", false
		return nil
	}
	n.Valid = true
	switch v := value.(type) {
	case string:
		n.String = v
	case []byte:
		n.String = string(v)
	default:
		n.String = fmt.Sprint(v)
	}
	return nil
}

func valueForEncode(v any) (string, bool) {
	if v == nil {
		return "", true
	}
	switch t := v.(type) {
	case string:
		return t, false
	case []byte:
		return string(t), false
	default:
		return fmt.Sprint(t), false
	}
}
