// Package catalog defines the dialect-bound facade the dump engine drives:
// list objects, fetch their DDL, open a row stream, and render the
// session-level SQL text (transaction/lock/key/autocommit bracketing) the
// dump needs around each of those.
package catalog

import (
	"context"

	"sqldump/internal/coltype"
)

// RowScanner is the subset of *sql.Rows the row-emit loop needs to stream
// a table's data. An interface rather than *sql.Rows itself, so an Adapter
// can be faked in tests without a live driver connection behind it.
type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// RowSelectOptions parametrizes the SELECT the row-emit loop issues for one
// table.
type RowSelectOptions struct {
	Where      string
	KeepDataIn []string // non-empty => "WHERE <col> IN (...)"; KeepDataCol names the column
	KeepDataCol string
	HexBlob    bool
}

// Adapter is the dialect-bound set of operations §4.1 specifies. One
// implementation (mysql.Adapter) exists in this repository; the method set
// is kept dialect-agnostic so a second dialect could be added without
// touching the dump engine.
type Adapter interface {
	Connect(ctx context.Context, dsnAttrs map[string]string) error
	Close() error

	QuoteIdentifier(name string) string
	QuoteString(value string) string

	ServerVersion(ctx context.Context) (string, error)
	DatabaseCharsetCollation(ctx context.Context, dbName string) (charset, collation string, err error)

	ListTables(ctx context.Context, dbName string) ([]string, error)
	ListViews(ctx context.Context, dbName string) ([]string, error)
	ListTriggers(ctx context.Context, dbName string) ([]string, error)
	ListProcedures(ctx context.Context, dbName string) ([]string, error)
	ListEvents(ctx context.Context, dbName string) ([]string, error)

	Columns(ctx context.Context, table string) ([]coltype.Descriptor, error)

	CreateTableDDL(ctx context.Context, table string, resetAutoIncrement bool) (string, error)
	CreateViewStandinDDL(view string, cols []coltype.Descriptor) string
	CreateViewDDL(ctx context.Context, view string, skipDefiner bool) (string, error)
	CreateTriggerDDL(ctx context.Context, trigger string, skipDefiner bool) (string, error)
	CreateProcedureDDL(ctx context.Context, proc string, skipDefiner bool) (string, error)
	CreateEventDDL(ctx context.Context, event string, skipDefiner bool) (string, error)

	// Session statement text, rendered (not executed) into the dump.
	BackupParametersSQL(defaultCharset string, skipTZUTC bool) []string
	RestoreParametersSQL(skipTZUTC bool) []string
	StartTransactionSQL() []string
	CommitSQL() string
	LockTablesWriteSQL(table string) string
	UnlockTablesSQL() string
	DisableKeysSQL(table string) string
	EnableKeysSQL(table string) string
	AutocommitOffSQL() string
	CreateDatabaseSQL(dbName, charset, collation string, ifNotExists bool) string
	DropDatabaseSQL(dbName string) string
	UseSQL(dbName string) string

	// Session statements that must actually run against the live
	// connection (server-side read consistency); these are never written
	// to the dump text themselves.
	ExecSessionDefaults(ctx context.Context, defaultCharset string, skipTZUTC bool) error
	ExecStartTransaction(ctx context.Context) error
	ExecLockTableReadLocal(ctx context.Context, table string) error
	ExecUnlockTables(ctx context.Context) error
	ExecCommit(ctx context.Context) error
	ExecStatement(ctx context.Context, sql string) error

	BuildRowSelect(table string, cols []coltype.Descriptor, opts RowSelectOptions) string
	QueryRows(ctx context.Context, query string) (RowScanner, error)
}
