package coltype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyword(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"int", "int"},
		{"INT", "int"},
		{"varchar(255)", "varchar"},
		{"VARCHAR(255)", "varchar"},
		{"decimal(10,2) unsigned", "decimal"},
		{"int unsigned", "int"},
		{"enum('a','b','c')", "enum"},
		{"bigint(20) unsigned zerofill", "bigint"},
		{"  text  ", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Keyword(tt.raw))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		rawSQL    string
		extra     string
		isNumeric bool
		isBlob    bool
		isVirtual bool
	}{
		{"a", "int(11)", "", true, false, false},
		{"b", "bit(1)", "", true, true, false},
		{"c", "blob", "", false, true, false},
		{"d", "varchar(255)", "", false, false, false},
		{"e", "decimal(10,2)", "", true, false, false},
		{"f", "geometry", "", false, true, false},
		{"g", "int(11)", "VIRTUAL GENERATED", true, false, true},
		{"h", "int(11)", "STORED GENERATED", true, false, true},
		{"i", "int(11)", "auto_increment", true, false, false},
		{"j", "json", "", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.name, tt.rawSQL, tt.extra)
			require.Equal(t, tt.name, d.Name)
			assert.Equal(t, tt.isNumeric, d.IsNumeric, "isNumeric")
			assert.Equal(t, tt.isBlob, d.IsBlob, "isBlob")
			assert.Equal(t, tt.isVirtual, d.IsVirtual, "isVirtual")
		})
	}
}

func TestClassifyUnknownTypeDefaultsNonNumericNonBlob(t *testing.T) {
	d := Classify("weird", "some_future_type(5)", "")
	assert.False(t, d.IsNumeric)
	assert.False(t, d.IsBlob)
}
