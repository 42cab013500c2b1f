package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.sql")

	s, err := Open(path, None)
	require.NoError(t, err)

	_, err = s.Write([]byte("-- hello\n"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "-- hello\n", string(got))
}

func TestGzipSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.sql.gz")

	s, err := Open(path, Gzip)
	require.NoError(t, err)

	_, err = s.Write([]byte("CREATE TABLE `t` (`a` int);\n"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	buf := make([]byte, 256)
	n, _ := gz.Read(buf)
	assert.Contains(t, string(buf[:n]), "CREATE TABLE `t`")
}

func TestOpenUnknownCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.sql")
	_, err := Open(path, Compression("lz4"))
	assert.Error(t, err)
}
