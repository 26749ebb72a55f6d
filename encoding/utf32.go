package encoding

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// byteOrder picks apart a 4-byte UTF-32 code unit into a code point. The
// two "transposed" XML orderings (2-3-0-1 and 1-0-3-2) exist because some
// legacy UCS-4 producers write their native 16-bit halves in the wrong
// order relative to the declared endianness.
type byteOrder interface {
	decode(b [4]byte) rune
}

type beOrder struct{}

func (beOrder) decode(b [4]byte) rune {
	return rune(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

type leOrder struct{}

func (leOrder) decode(b [4]byte) rune {
	return rune(uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0]))
}

// transposedOrder implements the two UCS-4 byte orderings the XML
// specification calls out as detectable from a 4-byte BOM-less prefix:
// 2-3-0-1 (big) and 1-0-3-2 (little).
type transposedOrder struct{ big bool }

func (t transposedOrder) decode(b [4]byte) rune {
	if t.big {
		return rune(uint32(b[2])<<24 | uint32(b[3])<<16 | uint32(b[0])<<8 | uint32(b[1]))
	}
	return rune(uint32(b[1])<<24 | uint32(b[0])<<16 | uint32(b[3])<<8 | uint32(b[2]))
}

// utf32Decoder is a transform.Transformer decoding 4-byte UTF-32 (or one of
// the XML-specific transposed UCS-4 orderings) into UTF-8. x/text ships no
// UTF-32 codec, so this follows the same Transform(dst, src, atEOF)
// contract its own encodings implement.
type utf32Decoder struct {
	order byteOrder
}

func (d *utf32Decoder) Reset() {}

func (d *utf32Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for len(src)-nSrc >= 4 {
		var b [4]byte
		copy(b[:], src[nSrc:nSrc+4])
		r := d.order.decode(b)
		if r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
			r = utf8.RuneError
		}
		if len(dst)-nDst < utf8.UTFMax {
			return nDst, nSrc, transform.ErrShortDst
		}
		n := utf8.EncodeRune(dst[nDst:], r)
		nDst += n
		nSrc += 4
	}
	if len(src)-nSrc > 0 {
		// trailing partial code unit: ErrShortSrc makes the caller wait for
		// more bytes; only once input has ended does it drop and report them.
		return nDst, nSrc, transform.ErrShortSrc
	}
	return nDst, nSrc, nil
}

// asciiDecoder enforces strict 7-bit US-ASCII: any byte with the high bit
// set is illegal, unlike charmap.Windows1252 which maps those bytes to
// printable characters.
type asciiDecoder struct{}

func (d *asciiDecoder) Reset() {}

func (d *asciiDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b := src[nSrc]
		if b >= 0x80 {
			if len(dst)-nDst < utf8.UTFMax {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += utf8.EncodeRune(dst[nDst:], utf8.RuneError)
			nSrc++
			continue
		}
		if len(dst)-nDst < 1 {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = b
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}
