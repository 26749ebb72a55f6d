// Package encoding implements byte-order-mark sniffing, XML/meta
// declaration sniffing, and the code-point decoders component B of the
// parser pipeline needs: UTF-8/16/32, Latin-1, Windows-1251/1252,
// US-ASCII, and EBCDIC-37. It turns a stream.Stream[byte] of unknown
// encoding into a stream.Stream[rune] of Unicode scalar values, reporting
// every illegal byte sequence it has to paper over with U+FFFD.
package encoding

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	xtext "golang.org/x/text/encoding"

	"github.com/corvidlabs/markup/errs"
	"github.com/corvidlabs/markup/stream"
)

// Encoding names one of the byte-to-Unicode mappings this package
// understands.
type Encoding struct {
	Name string
	xt   xtext.Encoding
	tf   func() transform.Transformer // overrides xt for codecs x/text has no Encoding for
}

func (e Encoding) newDecoder() transform.Transformer {
	if e.tf != nil {
		return e.tf()
	}
	return e.xt.NewDecoder()
}

var (
	UTF8        = Encoding{Name: "utf-8", xt: unicode.UTF8}
	UTF16BE     = Encoding{Name: "utf-16be", xt: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
	UTF16LE     = Encoding{Name: "utf-16le", xt: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}
	Latin1      = Encoding{Name: "iso-8859-1", xt: charmap.ISO8859_1}
	Windows1251 = Encoding{Name: "windows-1251", xt: charmap.Windows1251}
	Windows1252 = Encoding{Name: "windows-1252", xt: charmap.Windows1252}
	EBCDIC037   = Encoding{Name: "ibm037", xt: charmap.CodePage037}

	USASCII          = Encoding{Name: "us-ascii", tf: func() transform.Transformer { return new(asciiDecoder) }}
	UTF32BE          = Encoding{Name: "utf-32be", tf: func() transform.Transformer { return &utf32Decoder{order: beOrder{}} }}
	UTF32LE          = Encoding{Name: "utf-32le", tf: func() transform.Transformer { return &utf32Decoder{order: leOrder{}} }}
	UCS4BETransposed = Encoding{Name: "ucs-4be-transposed", tf: func() transform.Transformer { return &utf32Decoder{order: transposedOrder{big: true}} }}
	UCS4LETransposed = Encoding{Name: "ucs-4le-transposed", tf: func() transform.Transformer { return &utf32Decoder{order: transposedOrder{big: false}} }}
)

// DefaultXML is the fallback encoding when detection finds no evidence.
var DefaultXML = UTF8

// DefaultHTML is the fallback encoding per the HTML specification.
var DefaultHTML = Windows1252

// Location is a line/column position in the decoded rune stream, 1-based
// like core.Location — duplicated rather than imported to avoid a cycle
// (core already imports this package for Options.Encoding).
type Location struct {
	Line int
	Col  int
}

// Report is called for every byte sequence a Decode call had to replace
// with U+FFFD, with the location of the replacement rune in the output.
// Matches core.Options.Report's (Location, error) shape rather than the
// concrete errs.Error, so callers can pass the same reporting closure
// through both without a wrapper.
type Report func(Location, error)

// Decode turns a byte stream encoded as e into a stream of Unicode scalar
// values, one byte pulled from src at a time. x/text's decoders already
// substitute U+FFFD for invalid input and keep going; Decode's job is to
// notice each substitution and surface it through report, and to exclude
// any surrogate code point that slips through.
func Decode(src *stream.Stream[byte], e Encoding, report Report) *stream.Stream[rune] {
	t := e.newDecoder()
	var in []byte
	var pending []rune
	srcDone := false
	dst := make([]byte, 512)
	loc := Location{Line: 1, Col: 1}

	emit := func(r rune) {
		pending = append(pending, r)
		if r == '\n' {
			loc.Line++
			loc.Col = 1
		} else {
			loc.Col++
		}
	}

	note := func(r rune, at Location) {
		if (r == utf8.RuneError || (r >= 0xD800 && r <= 0xDFFF)) && report != nil {
			report(at, errs.Decoding(formatBytes(in), e.Name))
		}
	}

	decodeDst := func(b []byte) {
		for len(b) > 0 {
			r, size := utf8.DecodeRune(b)
			b = b[size:]
			at := loc
			note(r, at)
			if r >= 0xD800 && r <= 0xDFFF {
				r = utf8.RuneError
			}
			emit(r)
		}
	}

	// produce runs the transformer until it either emits output, needs
	// more source bytes (returns false), or is fully drained (true).
	produce := func() bool {
		for {
			nDst, nSrc, err := t.Transform(dst, in, srcDone)
			if nDst > 0 {
				decodeDst(dst[:nDst])
			}
			in = in[nSrc:]

			switch err {
			case nil:
				if nDst == 0 && nSrc == 0 {
					return len(in) == 0 && srcDone
				}
				continue
			case transform.ErrShortDst:
				continue
			case transform.ErrShortSrc:
				if !srcDone {
					return false
				}
				if len(in) == 0 {
					return true
				}
				// trailing bytes too short to form a character: drop the
				// first and report, then retry.
				if report != nil {
					report(loc, errs.Decoding(formatBytes(in), e.Name))
				}
				emit(utf8.RuneError)
				in = in[1:]
				continue
			default:
				// x/text's built-in decoders never return any other error;
				// treat unknown errors the same as a short, unusable tail.
				if len(in) > 0 {
					in = in[1:]
				}
				if report != nil {
					report(loc, errs.Decoding(formatBytes(in), e.Name))
				}
				emit(utf8.RuneError)
				if len(in) == 0 && srcDone {
					return true
				}
				continue
			}
		}
	}

	return stream.New(func() (rune, bool) {
		for {
			if len(pending) > 0 {
				r := pending[0]
				pending = pending[1:]
				return r, true
			}
			if done := produce(); done {
				return 0, false
			}
			if len(pending) > 0 {
				continue
			}
			b, ok := src.Next()
			if ok {
				in = append(in, b)
			} else {
				srcDone = true
			}
		}
	})
}

func formatBytes(b []byte) string {
	if len(b) == 0 {
		return "?"
	}
	const hex = "0123456789abcdef"
	n := len(b)
	if n > 4 {
		n = 4
	}
	out := make([]byte, 0, n*2)
	for _, c := range b[:n] {
		out = append(out, hex[c>>4], hex[c&0xf])
	}
	return string(out)
}
