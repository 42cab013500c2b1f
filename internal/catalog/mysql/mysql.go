// Package mysql implements the catalog.Adapter for MySQL, MariaDB and
// TiDB, which all speak the same wire protocol and INFORMATION_SCHEMA
// surface for the purposes of this dump pipeline.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"sqldump/internal/catalog"
	"sqldump/internal/coltype"
)

// Adapter is the MySQL catalog.Adapter implementation. The zero value is
// ready to Connect.
type Adapter struct {
	db *sql.DB
}

// New returns an unconnected Adapter.
func New() *Adapter {
	return &Adapter{}
}

// Connect opens the live connection. dsnAttrs are the attributes parsed
// out of the tool's own connection string (§6); they are translated here
// into the driver's native DSN. Unbuffered result streaming is the
// driver's default behavior for a normal Query/QueryContext call (rows are
// read lazily from the wire as Next is called), so no special option is
// required to get it. The driver DSN sets no parameters, so
// multi-statements and parseTime stay at the driver's defaults (both off)
// and the driver hands back raw textual/byte values the Value Encoder can
// hex or quote without any client-side reinterpretation.
func (a *Adapter) Connect(ctx context.Context, dsnAttrs map[string]string) error {
	driverDSN := buildDriverDSN(dsnAttrs)

	db, err := sql.Open("mysql", driverDSN)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping: %w", err)
	}

	a.db = db
	return nil
}

// Close releases the connection. Safe to call on an unconnected Adapter.
func (a *Adapter) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// buildDriverDSN translates the tool's dialect-agnostic attribute map into
// the go-sql-driver/mysql DSN form "user:pass@tcp(host:port)/dbname" (or
// the unix-socket equivalent).
func buildDriverDSN(attrs map[string]string) string {
	user := attrs["user"]
	pass := attrs["password"]
	dbName := attrs["dbname"]

	var userinfo string
	if user != "" {
		userinfo = user
		if pass != "" {
			userinfo += ":" + pass
		}
		userinfo += "@"
	}

	if socket := attrs["unix_socket"]; socket != "" {
		return fmt.Sprintf("%sunix(%s)/%s", userinfo, socket, dbName)
	}

	host := attrs["host"]
	port := attrs["port"]
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%stcp(%s:%s)/%s", userinfo, host, port, dbName)
}

// ServerVersion reports the connected server's version string.
func (a *Adapter) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := a.db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return "", fmt.Errorf("select version(): %w", err)
	}
	return version, nil
}

// DatabaseCharsetCollation reads a database's default character set and
// collation, used to build the CREATE DATABASE wrapper.
func (a *Adapter) DatabaseCharsetCollation(ctx context.Context, dbName string) (string, string, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT DEFAULT_CHARACTER_SET_NAME, DEFAULT_COLLATION_NAME
		FROM INFORMATION_SCHEMA.SCHEMATA
		WHERE SCHEMA_NAME = ?
	`, dbName)

	var charset, collation string
	if err := row.Scan(&charset, &collation); err != nil {
		return "", "", fmt.Errorf("schemata lookup for %q: %w", dbName, err)
	}
	return charset, collation, nil
}

// ListTables lists base tables in catalog order.
func (a *Adapter) ListTables(ctx context.Context, dbName string) ([]string, error) {
	return a.listNames(ctx,
		`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE='BASE TABLE' AND TABLE_SCHEMA=?`,
		dbName)
}

// ListViews lists views in catalog order.
func (a *Adapter) ListViews(ctx context.Context, dbName string) ([]string, error) {
	return a.listNames(ctx,
		`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE='VIEW' AND TABLE_SCHEMA=?`,
		dbName)
}

// ListTriggers lists trigger names via SHOW TRIGGERS, since
// INFORMATION_SCHEMA.TRIGGERS omits some dialect-specific detail SHOW
// carries.
func (a *Adapter) ListTriggers(ctx context.Context, dbName string) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, fmt.Sprintf("SHOW TRIGGERS FROM %s", a.QuoteIdentifier(dbName)))
	if err != nil {
		return nil, fmt.Errorf("show triggers: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("show triggers columns: %w", err)
	}
	triggerIdx := -1
	for i, c := range cols {
		if strings.EqualFold(c, "Trigger") {
			triggerIdx = i
			break
		}
	}
	if triggerIdx < 0 {
		return nil, fmt.Errorf("show triggers: no Trigger column in reply")
	}

	var names []string
	for rows.Next() {
		dest := make([]any, len(cols))
		scan := make([]sql.NullString, len(cols))
		for i := range dest {
			dest[i] = &scan[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("show triggers scan: %w", err)
		}
		names = append(names, scan[triggerIdx].String)
	}
	return names, rows.Err()
}

// ListProcedures lists stored procedure names.
func (a *Adapter) ListProcedures(ctx context.Context, dbName string) ([]string, error) {
	return a.listNames(ctx,
		`SELECT SPECIFIC_NAME FROM INFORMATION_SCHEMA.ROUTINES WHERE ROUTINE_TYPE='PROCEDURE' AND ROUTINE_SCHEMA=?`,
		dbName)
}

// ListEvents lists scheduled event names.
func (a *Adapter) ListEvents(ctx context.Context, dbName string) ([]string, error) {
	return a.listNames(ctx,
		`SELECT EVENT_NAME FROM INFORMATION_SCHEMA.EVENTS WHERE EVENT_SCHEMA=?`,
		dbName)
}

func (a *Adapter) listNames(ctx context.Context, query, dbName string) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, query, dbName)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Columns introspects a table's column descriptors in ordinal order.
func (a *Adapter) Columns(ctx context.Context, table string) ([]coltype.Descriptor, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT COLUMN_NAME, COLUMN_TYPE, EXTRA
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`, table)
	if err != nil {
		return nil, fmt.Errorf("columns for %q: %w", table, err)
	}
	defer rows.Close()

	var cols []coltype.Descriptor
	for rows.Next() {
		var name, colType, extra sql.NullString
		if err := rows.Scan(&name, &colType, &extra); err != nil {
			return nil, fmt.Errorf("columns scan for %q: %w", table, err)
		}
		cols = append(cols, coltype.Classify(name.String, colType.String, extra.String))
	}
	return cols, rows.Err()
}

// QuoteIdentifier back-tick-quotes an identifier, doubling embedded
// backticks.
func (a *Adapter) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteString quotes a string literal using the same escape table as the
// MySQL CLI client.
func (a *Adapter) QuoteString(value string) string {
	var b strings.Builder
	b.Grow(len(value) + len(value)/10 + 2)
	b.WriteByte('\'')
	for _, c := range value {
		switch c {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		case '\x00':
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\x1A':
			b.WriteString(`\Z`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// ExecStatement runs a single SQL statement against the live connection
// with no rows expected back.
func (a *Adapter) ExecStatement(ctx context.Context, sql string) error {
	_, err := a.db.ExecContext(ctx, sql)
	if err != nil {
		return fmt.Errorf("exec %q: %w", sql, err)
	}
	return nil
}

// QueryRows issues query and returns the live row stream. The caller owns
// closing it.
func (a *Adapter) QueryRows(ctx context.Context, query string) (catalog.RowScanner, error) {
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	return rows, nil
}
