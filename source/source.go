// Package source adapts byte-producing collaborators — in-memory buffers,
// io.Reader, files, channels, compressed payloads — into the
// stream.Stream[byte] this module's parsers pull from. None of this lives
// in the core: spec.md scopes network/filesystem I/O out of it, so every
// adapter here is a thin wrapper a caller opts into.
package source

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"

	"github.com/andybalholm/brotli"
	"github.com/corvidlabs/markup/stream"
)

// FromBytes returns a Stream over the bytes of b, copying nothing.
func FromBytes(b []byte) *stream.Stream[byte] {
	i := 0
	return stream.New(func() (byte, bool) {
		if i >= len(b) {
			return 0, false
		}
		v := b[i]
		i++
		return v, true
	})
}

// FromString is FromBytes over s's UTF-8 bytes.
func FromString(s string) *stream.Stream[byte] {
	return FromBytes([]byte(s))
}

// FromReader pulls from r one buffered byte at a time. A read error other
// than io.EOF marks the stream permanently failed (SetFail) so every
// subsequent Next/Peek re-raises it, rather than silently truncating input.
func FromReader(r io.Reader) *stream.Stream[byte] {
	br := bufio.NewReader(r)
	var s *stream.Stream[byte]
	s = stream.New(func() (byte, bool) {
		b, err := br.ReadByte()
		if err != nil {
			if err != io.EOF {
				s.SetFail(err)
			}
			return 0, false
		}
		return b, true
	})
	return s
}

// FromFile opens path and returns a Stream plus a close func the caller
// runs when done reading, mirroring the teacher's Config.AutoClose split
// between opening and closing rather than hiding Close behind a defer the
// caller can't reach.
func FromFile(path string) (*stream.Stream[byte], func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return FromReader(f), f.Close, nil
}

// FromChan turns a channel of byte slices — the shape RW2Chan-style
// adapters and producers already speak — into a byte Stream, flattening
// each received slice in order.
func FromChan(c <-chan []byte) *stream.Stream[byte] {
	var cur []byte
	i := 0
	return stream.New(func() (byte, bool) {
		for i >= len(cur) {
			buf, ok := <-c
			if !ok {
				return 0, false
			}
			cur, i = buf, 0
		}
		b := cur[i]
		i++
		return b, true
	})
}

// FromGzip wraps r in a gzip reader before streaming its decompressed bytes.
func FromGzip(r io.Reader) (*stream.Stream[byte], error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return FromReader(gr), nil
}

// FromBrotli wraps r in a brotli reader before streaming its decompressed
// bytes. The sink package has no brotli counterpart.
func FromBrotli(r io.Reader) *stream.Stream[byte] {
	return FromReader(brotli.NewReader(r))
}
