package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	d, err := Parse("mysql:host=127.0.0.1;port=3306;dbname=shop;user=root")
	require.NoError(t, err)
	assert.Equal(t, MySQL, d.Dialect)
	assert.Equal(t, "shop", d.DBName())
	port, ok := d.Get("PORT")
	assert.True(t, ok)
	assert.Equal(t, "3306", port)
}

func TestParseSQLiteNeedsNoHost(t *testing.T) {
	d, err := Parse("sqlite:dbname=/var/data/app.db")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d.Dialect)
	assert.Equal(t, "/var/data/app.db", d.DBName())
}

func TestParseMissingDialect(t *testing.T) {
	_, err := Parse("host=localhost;dbname=x")
	assert.Error(t, err)
}

func TestParseUnknownDialect(t *testing.T) {
	_, err := Parse("oracle:host=localhost;dbname=x")
	assert.Error(t, err)
}

func TestParseMissingDBName(t *testing.T) {
	_, err := Parse("mysql:host=localhost")
	assert.Error(t, err)
}

func TestParseMissingHostNonSQLite(t *testing.T) {
	_, err := Parse("mysql:dbname=shop")
	assert.Error(t, err)
}

func TestParseUnixSocketSatisfiesHostRequirement(t *testing.T) {
	_, err := Parse("mysql:unix_socket=/tmp/mysql.sock;dbname=shop")
	assert.NoError(t, err)
}

func TestParseKeysCaseInsensitiveValuesVerbatim(t *testing.T) {
	d, err := Parse("mysql:HOST=Localhost;DbName=Shop")
	require.NoError(t, err)
	v, ok := d.Get("host")
	require.True(t, ok)
	assert.Equal(t, "Localhost", v)
	assert.Equal(t, "Shop", d.DBName())
}
