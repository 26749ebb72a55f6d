package encoding

import (
	"bytes"
	"strings"

	"github.com/corvidlabs/markup/stream"
)

// Mode selects which default and declaration-sniffing rules Detect applies.
type Mode int

const (
	ModeXML Mode = iota
	ModeHTML
)

// Detect implements the algorithm of spec §4.B: sniff a BOM, fall back to
// the XML specification's 4-byte tentative-encoding patterns, read far
// enough to find an XML declaration or an HTML <meta charset>, and restart
// from the very first byte with the final encoding. It buffers only the
// handful of bytes detection itself needs (never the whole document) and
// returns a stream.Stream[byte] that replays those buffered bytes before
// continuing to pull from src.
func Detect(src *stream.Stream[byte], mode Mode) (Encoding, *stream.Stream[byte]) {
	var buf []byte
	peek := func(n int) []byte {
		for len(buf) < n {
			b, ok := src.Next()
			if !ok {
				break
			}
			buf = append(buf, b)
		}
		if n > len(buf) {
			n = len(buf)
		}
		return buf[:n]
	}

	replay := func() *stream.Stream[byte] {
		i := 0
		return stream.New(func() (byte, bool) {
			if i < len(buf) {
				b := buf[i]
				i++
				return b, true
			}
			return src.Next()
		})
	}

	head := peek(4)

	if enc, ok := sniffBOM(head); ok {
		return enc, replay()
	}

	tentative, hasTentative := sniffXMLPattern(head)

	if !hasTentative {
		if mode == ModeHTML {
			tentative = DefaultHTML
		} else {
			tentative = DefaultXML
		}
	}

	// read enough of the prolog/head to find an explicit declaration.
	const prologWindow = 1024
	window := peek(prologWindow)

	var declared string
	var ok bool
	if mode == ModeXML {
		declared, ok = sniffXMLDeclEncoding(window, tentative)
	} else {
		declared, ok = sniffMetaCharset(window)
	}

	if ok {
		if final, known := Lookup(declared); known {
			return final, replay()
		}
	}

	return tentative, replay()
}

// Lookup resolves an IANA/HTML encoding label (case-insensitively, with
// the aliases this module recognizes) to an Encoding.
func Lookup(label string) (Encoding, bool) {
	switch normalizeLabel(label) {
	case "utf-8", "utf8":
		return UTF8, true
	case "utf-16be":
		return UTF16BE, true
	case "utf-16le", "utf-16":
		return UTF16LE, true
	case "utf-32be":
		return UTF32BE, true
	case "utf-32le", "utf-32":
		return UTF32LE, true
	case "iso-8859-1", "latin1", "latin-1":
		return Latin1, true
	case "windows-1251", "cp1251":
		return Windows1251, true
	case "windows-1252", "cp1252":
		return Windows1252, true
	case "us-ascii", "ascii":
		return USASCII, true
	case "ibm037", "cp037", "ebcdic-cp-us":
		return EBCDIC037, true
	default:
		return Encoding{}, false
	}
}

func normalizeLabel(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c == '_' {
			c = '-'
		}
		out = append(out, c)
	}
	return string(out)
}

func sniffBOM(head []byte) (Encoding, bool) {
	switch {
	case bytes.HasPrefix(head, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return UTF32BE, true
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return UTF32LE, true
	// transposed (unusual octet order) UCS-4 BOMs: 2-1-4-3 and 3-4-1-2.
	// Checked before the 2-byte UTF-16 patterns below, since the 3-4-1-2
	// form (FE FF 00 00) shares its first two bytes with the UTF-16BE BOM.
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF, 0x00, 0x00}):
		return UCS4BETransposed, true
	case bytes.HasPrefix(head, []byte{0x00, 0x00, 0xFF, 0xFE}):
		return UCS4LETransposed, true
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		return UTF8, true
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return UTF16BE, true
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return UTF16LE, true
	default:
		return Encoding{}, false
	}
}

// sniffXMLPattern matches the four-byte tentative-encoding patterns from
// the XML specification's Appendix F, used before any declaration has
// been read.
func sniffXMLPattern(head []byte) (Encoding, bool) {
	if len(head) < 4 {
		return Encoding{}, false
	}
	switch {
	case bytes.Equal(head, []byte{0x00, 0x00, 0x00, 0x3C}):
		return UTF32BE, true
	case bytes.Equal(head, []byte{0x3C, 0x00, 0x00, 0x00}):
		return UTF32LE, true
	case bytes.Equal(head, []byte{0x00, 0x3C, 0x00, 0x3F}):
		return UTF16BE, true
	case bytes.Equal(head, []byte{0x3C, 0x00, 0x3F, 0x00}):
		return UTF16LE, true
	case bytes.Equal(head, []byte{0x3C, 0x3F, 0x78, 0x6D}):
		return UTF8, true
	case bytes.Equal(head, []byte{0x4C, 0x6F, 0xA7, 0x94}):
		return EBCDIC037, true
	default:
		return Encoding{}, false
	}
}

// sniffXMLDeclEncoding looks for encoding="..." inside a leading
// <?xml ... ?> declaration, decoded tentatively as enc.
func sniffXMLDeclEncoding(window []byte, enc Encoding) (string, bool) {
	text := decodeAscii(window, enc)
	if !strings.HasPrefix(text, "<?xml") {
		return "", false
	}
	end := strings.Index(text, "?>")
	if end < 0 {
		end = len(text)
	}
	decl := text[:end]
	return findAttr(decl, "encoding")
}

// sniffMetaCharset implements a reduced form of the WHATWG "prescan a byte
// stream to determine its encoding" algorithm: look for <meta charset=...>
// or <meta http-equiv=content-type ... charset=...> within window.
func sniffMetaCharset(window []byte) (string, bool) {
	text := decodeAscii(window, DefaultHTML)
	lower := strings.ToLower(text)
	i := 0
	for {
		idx := strings.Index(lower[i:], "<meta")
		if idx < 0 {
			return "", false
		}
		i += idx
		end := strings.Index(lower[i:], ">")
		if end < 0 {
			return "", false
		}
		tag := lower[i : i+end]
		orig := text[i : i+end]
		if cs, ok := findAttr(orig, "charset"); ok && !strings.Contains(tag, "http-equiv") {
			return cs, true
		}
		if ct, ok := findAttr(orig, "content"); ok {
			if cs, ok := extractContentCharset(ct); ok {
				return cs, true
			}
		}
		i += end + 1
	}
}

func extractContentCharset(content string) (string, bool) {
	lower := strings.ToLower(content)
	idx := strings.Index(lower, "charset")
	if idx < 0 {
		return "", false
	}
	rest := content[idx+len("charset"):]
	rest = strings.TrimLeft(rest, " \t\r\n")
	if len(rest) == 0 || rest[0] != '=' {
		return "", false
	}
	rest = strings.TrimLeft(rest[1:], " \t\r\n")
	return readAttrValue(rest)
}

// decodeAscii decodes window with enc's own transformer in a single shot,
// for the sole purpose of letting the ASCII-only scanners above find tag
// and attribute syntax. window is always a small, bounded prefix (at most
// prologWindow bytes), so this never violates the no-buffer-the-whole-
// document guarantee — it is strictly part of detection's own bounded
// lookahead.
func decodeAscii(window []byte, enc Encoding) string {
	t := enc.newDecoder()
	dst := make([]byte, len(window)*4+16)
	nDst, _, _ := t.Transform(dst, window, true)
	return string(dst[:nDst])
}
