package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqldump/internal/sink"
)

func TestLoadAppliesOverridesOnTopOfDefaults(t *testing.T) {
	raw := []byte(`
include-tables = ["users", "/^log_/"]
no-data = true
compress = "gzip"
hex-blob = false
net_buffer_length = 4096
`)
	opts, err := Load(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"users", "/^log_/"}, opts.IncludeTables)
	assert.True(t, opts.NoData)
	assert.Equal(t, sink.Gzip, opts.Compress)
	assert.False(t, opts.HexBlob)
	assert.Equal(t, 4096, opts.NetBufferLength)
	// untouched defaults survive
	assert.True(t, opts.AddLocks)
	assert.True(t, opts.SingleTransaction)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	raw := []byte(`totally-made-up-option = true`)
	_, err := Load(raw)
	assert.Error(t, err)
}

func TestLoadKeepData(t *testing.T) {
	raw := []byte(`
[keep-data.users]
column = "id"
rows = ["1", "2", "3"]
`)
	opts, err := Load(raw)
	require.NoError(t, err)
	require.Contains(t, opts.KeepData, "users")
	assert.Equal(t, "id", opts.KeepData["users"].Column)
	assert.Equal(t, []string{"1", "2", "3"}, opts.KeepData["users"].Rows)
}
