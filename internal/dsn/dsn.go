// Package dsn decomposes the dump tool's connection string into a dialect
// and its key/value attributes. The grammar is
// "<dialect>:<k1>=<v1>;<k2>=<v2>;...", independent of any one driver's own
// DSN syntax — this package only has to isolate "dialect" and "dbname"
// plus whatever else the caller wants to read back out.
package dsn

import (
	"fmt"
	"strings"
)

// Dialect is the closed set of dialects a connection string may name. Only
// MySQL is implemented by the catalog adapter in this repository; the
// others are accepted here (so a DSN naming them fails with a clear
// "unsupported dialect" ConfigError downstream, rather than a parse
// error) per the redesign note to replace dynamic factory dispatch with a
// closed variant type chosen at parse time.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	PgSQL  Dialect = "pgsql"
	DBLib  Dialect = "dblib"
	SQLite Dialect = "sqlite"
)

var knownDialects = map[string]Dialect{
	"mysql":  MySQL,
	"pgsql":  PgSQL,
	"dblib":  DBLib,
	"sqlite": SQLite,
}

// DSN is the parsed connection string: a dialect plus its attributes.
// Attribute keys are normalized to lowercase; values are preserved
// verbatim (including case).
type DSN struct {
	Dialect Dialect
	Attrs   map[string]string
}

// Get returns an attribute value and whether it was present.
func (d *DSN) Get(key string) (string, bool) {
	v, ok := d.Attrs[strings.ToLower(key)]
	return v, ok
}

// DBName returns the required "dbname" attribute.
func (d *DSN) DBName() string {
	v, _ := d.Get("dbname")
	return v
}

// Parse decomposes raw into a DSN. It is fatal (a ConfigError-shaped error
// per §7) when the dialect is missing or unrecognized, when "dbname" is
// missing, or when neither "host" nor "unix_socket" is present for a
// non-sqlite dialect (sqlite uses dbname itself as a file path and needs
// neither).
func Parse(raw string) (*DSN, error) {
	idx := strings.IndexByte(raw, ':')
	if idx < 0 {
		return nil, fmt.Errorf("dsn: missing dialect (expected \"<dialect>:k=v;...\"), got %q", raw)
	}

	dialectName := strings.ToLower(strings.TrimSpace(raw[:idx]))
	dialect, ok := knownDialects[dialectName]
	if !ok {
		return nil, fmt.Errorf("dsn: unrecognized dialect %q", dialectName)
	}

	attrs := make(map[string]string)
	rest := raw[idx+1:]
	for _, part := range strings.Split(rest, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		if key == "" {
			continue
		}
		value := ""
		if len(kv) == 2 {
			value = kv[1]
		}
		attrs[key] = value
	}

	d := &DSN{Dialect: dialect, Attrs: attrs}

	if d.DBName() == "" {
		return nil, fmt.Errorf("dsn: missing required attribute %q", "dbname")
	}

	if dialect != SQLite {
		_, hasHost := d.Get("host")
		_, hasSocket := d.Get("unix_socket")
		if !hasHost && !hasSocket {
			return nil, fmt.Errorf("dsn: dialect %q requires %q or %q", dialect, "host", "unix_socket")
		}
	}

	return d, nil
}
