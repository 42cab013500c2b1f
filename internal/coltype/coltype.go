// Package coltype classifies SQL column types into the numeric / BLOB-like /
// virtual-generated categories the dump pipeline needs to pick an encoding
// strategy for a cell, without caring about the rest of a column's
// definition.
package coltype

import "strings"

// Descriptor is the per-column classification the rest of the pipeline keys
// its behavior off of. Type is the lowercase base keyword ("varchar",
// "bigint", ...); RawSQL is the original type expression exactly as
// INFORMATION_SCHEMA/SHOW COLUMNS reported it ("varchar(255)",
// "decimal(10,2) unsigned", ...).
type Descriptor struct {
	Name      string
	Type      string
	RawSQL    string
	IsNumeric bool
	IsBlob    bool
	IsVirtual bool
}

// numeric is the fixed set of numeric base keywords. bit is deliberately
// also a member of blob: it is numeric for SQL purposes but selected and
// emitted as a hex literal, since the projection side uses
// LPAD(HEX(col),2,'0').
var numeric = map[string]bool{
	"bit": true, "tinyint": true, "smallint": true, "mediumint": true,
	"int": true, "integer": true, "bigint": true,
	"real": true, "double": true, "float": true,
	"decimal": true, "numeric": true,
}

var blob = map[string]bool{
	"tinyblob": true, "blob": true, "mediumblob": true, "longblob": true,
	"binary": true, "varbinary": true, "bit": true,
	"geometry": true, "point": true, "linestring": true, "polygon": true,
	"multipoint": true, "multilinestring": true, "multipolygon": true,
	"geometrycollection": true,
}

// Keyword extracts the lowercase base type keyword from a raw SQL type
// expression by splitting on the first '('. "varchar(255)" -> "varchar";
// "int unsigned" -> "int" (the modifier, and any length/enum-value list,
// is retained only in RawSQL for informational use).
func Keyword(rawSQL string) string {
	s := strings.TrimSpace(rawSQL)
	if idx := strings.IndexByte(s, '('); idx >= 0 {
		s = s[:idx]
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if sp := strings.IndexByte(s, ' '); sp >= 0 {
		s = s[:sp]
	}
	return s
}

// Classify builds a Descriptor from a column name, its raw SQL type, and
// the Extra attribute reported alongside it (used to detect generated
// columns). An unrecognized keyword is not an error: it simply classifies
// as neither numeric nor blob, matching the spec's EncodingError taxonomy
// where an unknown column type is not itself fatal.
func Classify(name, rawSQL, extra string) Descriptor {
	kw := Keyword(rawSQL)
	return Descriptor{
		Name:      name,
		Type:      kw,
		RawSQL:    rawSQL,
		IsNumeric: numeric[kw],
		IsBlob:    blob[kw],
		IsVirtual: isGenerated(extra),
	}
}

func isGenerated(extra string) bool {
	e := strings.ToUpper(extra)
	return strings.Contains(e, "VIRTUAL GENERATED") || strings.Contains(e, "STORED GENERATED")
}
