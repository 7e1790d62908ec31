package source

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/csvtable/pkg/errors"
)

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// "a,b\n1,2\n" compressed with bzip2
const bzip2Fixture = "425a6839314159265359bf87407f000003590000100004300030002000" +
	"30c00869b28823278bb9229c28485fc3a03f80"

func TestFromBytesPlain(t *testing.T) {
	data := []byte("a,b\n1,2\n")
	out, err := FromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestFromBytesGzip(t *testing.T) {
	out, err := FromBytes(gzipBytes(t, "a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a,b\n1,2\n"), out)
}

func TestFromBytesBzip2(t *testing.T) {
	raw, err := hex.DecodeString(bzip2Fixture)
	require.NoError(t, err)

	out, err := FromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte("a,b\n1,2\n"), out)
}

func TestFromBytesCorruptGzip(t *testing.T) {
	_, err := FromBytes([]byte{0x1f, 0x8b, 0xff, 0xff})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n"), 0o644))

	out, err := FromPath(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("x,y\n"), out)
}

func TestFromPathGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv.gz")
	require.NoError(t, os.WriteFile(path, gzipBytes(t, "x,y\n1,2\n"), 0o644))

	out, err := FromPath(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("x,y\n1,2\n"), out)
}

func TestFromPathMissing(t *testing.T) {
	_, err := FromPath("/nonexistent/file.csv")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestFromPathDirectory(t *testing.T) {
	_, err := FromPath(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestFromReaderLargeStream(t *testing.T) {
	payload := strings.Repeat("0123456789,abcdef\n", 20000)
	out, err := FromReader(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, []byte(payload), out)
}
