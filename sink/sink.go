// Package sink is the mirror image of source: adapters that drain a
// stream.Stream[byte] (typically the output of WriteXML/WriteHTML) into a
// buffer, an io.Writer, a file, or a channel.
package sink

import (
	"bytes"
	"os"

	"github.com/corvidlabs/markup/stream"
)

// ToBuffer drains s into a new bytes.Buffer.
func ToBuffer(s *stream.Stream[byte]) *bytes.Buffer {
	buf := &bytes.Buffer{}
	stream.Iter(s, func(b byte) { buf.WriteByte(b) })
	return buf
}

// ToWriter drains s into w, batching writes in chunks rather than one
// byte at a time, and stops at the first write error.
func ToWriter(s *stream.Stream[byte], w interface{ Write([]byte) (int, error) }) error {
	const chunkSize = 4096
	buf := make([]byte, 0, chunkSize)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		_, err := w.Write(buf)
		buf = buf[:0]
		return err
	}
	for {
		b, ok := s.Next()
		if !ok {
			return flush()
		}
		buf = append(buf, b)
		if len(buf) == chunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
}

// ToFile creates (or truncates) path and drains s into it, closing the
// file whether or not the drain succeeded.
func ToFile(s *stream.Stream[byte], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ToWriter(s, f)
}

// ToChan drains s into a channel of fixed-size byte slices, closing the
// channel once s is exhausted; the mirror-image of source.FromChan.
func ToChan(s *stream.Stream[byte], chunkSize int) <-chan []byte {
	if chunkSize <= 0 {
		chunkSize = 4096
	}
	c := make(chan []byte, 4)
	go func() {
		defer close(c)
		buf := make([]byte, 0, chunkSize)
		for {
			b, ok := s.Next()
			if !ok {
				if len(buf) > 0 {
					c <- buf
				}
				return
			}
			buf = append(buf, b)
			if len(buf) == chunkSize {
				c <- buf
				buf = make([]byte, 0, chunkSize)
			}
		}
	}()
	return c
}
