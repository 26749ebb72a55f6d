package source

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, s interface{ Next() (byte, bool) }) []byte {
	t.Helper()
	var out []byte
	for {
		b, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, b)
	}
}

func TestFromBytesAndString(t *testing.T) {
	require.Equal(t, []byte("hi"), drain(t, FromBytes([]byte("hi"))))
	require.Equal(t, []byte("hi"), drain(t, FromString("hi")))
}

func TestFromReader(t *testing.T) {
	got := drain(t, FromReader(bytes.NewReader([]byte("hello"))))
	require.Equal(t, []byte("hello"), got)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte("<r/>"), 0o644))

	s, closeFn, err := FromFile(path)
	require.NoError(t, err)
	defer closeFn()

	require.Equal(t, []byte("<r/>"), drain(t, s))
}

func TestFromFileMissing(t *testing.T) {
	_, _, err := FromFile(filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, err)
}

func TestFromChan(t *testing.T) {
	c := make(chan []byte, 4)
	c <- []byte("ab")
	c <- []byte("cd")
	close(c)

	got := drain(t, FromChan(c))
	require.Equal(t, []byte("abcd"), got)
}

func TestFromGzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte("compressed"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	s, err := FromGzip(&buf)
	require.NoError(t, err)
	require.Equal(t, []byte("compressed"), drain(t, s))
}

func TestFromReaderPropagatesNonEOFError(t *testing.T) {
	s := FromReader(errReader{})
	_, ok := s.Next()
	require.False(t, ok)

	defer func() {
		r := recover()
		require.NotNil(t, r)
	}()
	s.Next()
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }
