package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/corvidlabs/markup/stream"
	"github.com/stretchr/testify/require"
)

func byteStream(s string) *stream.Stream[byte] {
	return stream.OfSlice([]byte(s))
}

func TestToBuffer(t *testing.T) {
	buf := ToBuffer(byteStream("hello"))
	require.Equal(t, "hello", buf.String())
}

func TestToWriter(t *testing.T) {
	buf := &trackingWriter{}
	err := ToWriter(byteStream("hello world"), buf)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(buf.data))
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, ToFile(byteStream("file contents"), path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "file contents", string(got))
}

func TestToChan(t *testing.T) {
	c := ToChan(byteStream("abcdef"), 2)
	var got []byte
	for chunk := range c {
		got = append(got, chunk...)
	}
	require.Equal(t, "abcdef", string(got))
}

type trackingWriter struct {
	data []byte
}

func (w *trackingWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}
