package dump_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqldump/internal/catalog"
	"sqldump/internal/coltype"
	"sqldump/internal/dsn"
	"sqldump/internal/dump"
)

// fakeAdapter is a minimal catalog.Adapter driven entirely from in-memory
// data, for engine-level scenarios the testcontainers-backed integration
// test doesn't reach (no live driver, no real network dependency). It
// always reports a single table with the fixed rows it was built with.
type fakeAdapter struct {
	table string
	cols  []coltype.Descriptor
	rows  [][]any // one entry per row, one value per non-virtual column, in column order
}

func (a *fakeAdapter) Connect(ctx context.Context, dsnAttrs map[string]string) error { return nil }
func (a *fakeAdapter) Close() error                                                  { return nil }

func (a *fakeAdapter) QuoteIdentifier(name string) string { return "`" + name + "`" }
func (a *fakeAdapter) QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func (a *fakeAdapter) ServerVersion(ctx context.Context) (string, error) { return "8.0.0-fake", nil }
func (a *fakeAdapter) DatabaseCharsetCollation(ctx context.Context, dbName string) (string, string, error) {
	return "utf8mb4", "utf8mb4_general_ci", nil
}

func (a *fakeAdapter) ListTables(ctx context.Context, dbName string) ([]string, error) {
	return []string{a.table}, nil
}
func (a *fakeAdapter) ListViews(ctx context.Context, dbName string) ([]string, error)      { return nil, nil }
func (a *fakeAdapter) ListTriggers(ctx context.Context, dbName string) ([]string, error)    { return nil, nil }
func (a *fakeAdapter) ListProcedures(ctx context.Context, dbName string) ([]string, error)  { return nil, nil }
func (a *fakeAdapter) ListEvents(ctx context.Context, dbName string) ([]string, error)      { return nil, nil }

func (a *fakeAdapter) Columns(ctx context.Context, table string) ([]coltype.Descriptor, error) {
	return a.cols, nil
}

func (a *fakeAdapter) CreateTableDDL(ctx context.Context, table string, resetAutoIncrement bool) (string, error) {
	return fmt.Sprintf("CREATE TABLE %s (/* fake */);\n", a.QuoteIdentifier(table)), nil
}
func (a *fakeAdapter) CreateViewStandinDDL(view string, cols []coltype.Descriptor) string { return "" }
func (a *fakeAdapter) CreateViewDDL(ctx context.Context, view string, skipDefiner bool) (string, error) {
	return "", nil
}
func (a *fakeAdapter) CreateTriggerDDL(ctx context.Context, trigger string, skipDefiner bool) (string, error) {
	return "", nil
}
func (a *fakeAdapter) CreateProcedureDDL(ctx context.Context, proc string, skipDefiner bool) (string, error) {
	return "", nil
}
func (a *fakeAdapter) CreateEventDDL(ctx context.Context, event string, skipDefiner bool) (string, error) {
	return "", nil
}

func (a *fakeAdapter) BackupParametersSQL(defaultCharset string, skipTZUTC bool) []string { return nil }
func (a *fakeAdapter) RestoreParametersSQL(skipTZUTC bool) []string                       { return nil }
func (a *fakeAdapter) StartTransactionSQL() []string                                      { return nil }
func (a *fakeAdapter) CommitSQL() string                                                  { return "COMMIT;" }
func (a *fakeAdapter) LockTablesWriteSQL(table string) string {
	return fmt.Sprintf("LOCK TABLES %s WRITE;", a.QuoteIdentifier(table))
}
func (a *fakeAdapter) UnlockTablesSQL() string { return "UNLOCK TABLES;" }
func (a *fakeAdapter) DisableKeysSQL(table string) string {
	return fmt.Sprintf("ALTER TABLE %s DISABLE KEYS;", a.QuoteIdentifier(table))
}
func (a *fakeAdapter) EnableKeysSQL(table string) string {
	return fmt.Sprintf("ALTER TABLE %s ENABLE KEYS;", a.QuoteIdentifier(table))
}
func (a *fakeAdapter) AutocommitOffSQL() string { return "SET autocommit=0;" }
func (a *fakeAdapter) CreateDatabaseSQL(dbName, charset, collation string, ifNotExists bool) string {
	return ""
}
func (a *fakeAdapter) DropDatabaseSQL(dbName string) string { return "" }
func (a *fakeAdapter) UseSQL(dbName string) string          { return "" }

func (a *fakeAdapter) ExecSessionDefaults(ctx context.Context, defaultCharset string, skipTZUTC bool) error {
	return nil
}
func (a *fakeAdapter) ExecStartTransaction(ctx context.Context) error              { return nil }
func (a *fakeAdapter) ExecLockTableReadLocal(ctx context.Context, table string) error { return nil }
func (a *fakeAdapter) ExecUnlockTables(ctx context.Context) error                  { return nil }
func (a *fakeAdapter) ExecCommit(ctx context.Context) error                        { return nil }
func (a *fakeAdapter) ExecStatement(ctx context.Context, sql string) error         { return nil }

func (a *fakeAdapter) BuildRowSelect(table string, cols []coltype.Descriptor, opts catalog.RowSelectOptions) string {
	return "SELECT * FROM " + a.QuoteIdentifier(table)
}

func (a *fakeAdapter) QueryRows(ctx context.Context, query string) (catalog.RowScanner, error) {
	return &fakeRowScanner{rows: a.rows}, nil
}

// fakeRowScanner plays back the rows it was built with, scanning each
// column value into dest via dest's own sql.Scanner-shaped Scan method
// (the same contract *sql.Rows.Scan relies on), so it exercises the exact
// scan path streamRows uses against a live driver.
type fakeRowScanner struct {
	rows [][]any
	idx  int
}

func (r *fakeRowScanner) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRowScanner) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	for i, v := range row {
		scanner, ok := dest[i].(interface{ Scan(value any) error })
		if !ok {
			return fmt.Errorf("dest[%d] does not implement Scan", i)
		}
		if err := scanner.Scan(v); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRowScanner) Close() error { return nil }
func (r *fakeRowScanner) Err() error   { return nil }

func newAdapterFactory(a *fakeAdapter) func(dsn.Dialect) (catalog.Adapter, error) {
	return func(d dsn.Dialect) (catalog.Adapter, error) {
		if d != dsn.MySQL {
			return nil, fmt.Errorf("unsupported dialect %q", d)
		}
		return a, nil
	}
}

// TestRunToVirtualColumnForcesCompleteInsert covers scenario 3: a virtual
// (generated) column is never selected or stored, but its mere presence on
// the table forces complete-insert for every other column, per §4.6, even
// when the complete-insert option itself is left at its default of false.
func TestRunToVirtualColumnForcesCompleteInsert(t *testing.T) {
	adapter := &fakeAdapter{
		table: "items",
		cols: []coltype.Descriptor{
			coltype.Classify("id", "int(11)", ""),
			coltype.Classify("name", "varchar(50)", ""),
			coltype.Classify("total", "int(11)", "VIRTUAL GENERATED"),
		},
		rows: [][]any{{"1", "alpha"}},
	}

	opts := dump.DefaultOptions()
	require.False(t, opts.CompleteInsert, "test assumes complete-insert defaults to false")

	var out bytes.Buffer
	err := dump.RunTo(context.Background(), dump.Config{
		DSN:        "mysql:host=localhost;port=3306;user=u;password=p;dbname=testdb",
		Options:    opts,
		NewAdapter: newAdapterFactory(adapter),
	}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "INSERT INTO `items` (`id`, `name`) VALUES (1,'alpha');")
}

// TestRunToBatchSplitsAtNetBufferLength covers scenario 4: even with
// extended-insert enabled, the row-emit loop starts a new INSERT statement
// once the accumulated line has exceeded net_buffer_length, rather than
// batching every row of a table into a single statement.
func TestRunToBatchSplitsAtNetBufferLength(t *testing.T) {
	adapter := &fakeAdapter{
		table: "t",
		cols: []coltype.Descriptor{
			coltype.Classify("id", "int(11)", ""),
			coltype.Classify("val", "varchar(20)", ""),
		},
		rows: [][]any{{"1", "aaaa"}, {"2", "bbbb"}},
	}

	opts := dump.DefaultOptions()
	opts.NetBufferLength = 30 // "INSERT INTO `t` VALUES (1,'aaaa')" alone is already 33 bytes
	require.True(t, opts.ExtendedInsert, "test assumes extended-insert defaults to true")

	var out bytes.Buffer
	err := dump.RunTo(context.Background(), dump.Config{
		DSN:        "mysql:host=localhost;port=3306;user=u;password=p;dbname=testdb",
		Options:    opts,
		NewAdapter: newAdapterFactory(adapter),
	}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "INSERT INTO `t` VALUES (1,'aaaa');")
	assert.Contains(t, text, "INSERT INTO `t` VALUES (2,'bbbb');")
	assert.NotContains(t, text, "(1,'aaaa'),(2,'bbbb')", "rows should split into separate statements, not batch together")
}
