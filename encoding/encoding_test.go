package encoding

import (
	"testing"

	"github.com/corvidlabs/markup/stream"
)

func byteStream(b []byte) *stream.Stream[byte] {
	return stream.OfSlice(b)
}

func decodeAll(t *testing.T, src []byte, enc Encoding) (string, []string) {
	t.Helper()
	var reports []string
	out := Decode(byteStream(src), enc, func(_ Location, e error) {
		reports = append(reports, e.Error())
	})
	var got []rune
	for {
		r, ok := out.Next()
		if !ok {
			break
		}
		got = append(got, r)
	}
	return string(got), reports
}

func TestDecodeUTF8RoundTrip(t *testing.T) {
	in := "héllo wörld"
	got, reports := decodeAll(t, []byte(in), UTF8)
	if got != in {
		t.Fatalf("got %q, want %q", got, in)
	}
	if len(reports) != 0 {
		t.Fatalf("unexpected reports: %v", reports)
	}
}

func TestDecodeLatin1(t *testing.T) {
	// 0xE9 is é in Latin-1.
	got, reports := decodeAll(t, []byte{'a', 0xE9, 'b'}, Latin1)
	if got != "aéb" {
		t.Fatalf("got %q", got)
	}
	if len(reports) != 0 {
		t.Fatalf("unexpected reports: %v", reports)
	}
}

func TestDecodeInvalidUTF8Reports(t *testing.T) {
	got, reports := decodeAll(t, []byte{'a', 0xFF, 'b'}, UTF8)
	if got != "a�b" {
		t.Fatalf("got %q", got)
	}
	if len(reports) == 0 {
		t.Fatalf("expected a decoding error report")
	}
}

func TestDecodeASCIIRejectsHighBit(t *testing.T) {
	got, reports := decodeAll(t, []byte{'a', 0x80, 'b'}, USASCII)
	if got != "a�b" {
		t.Fatalf("got %q", got)
	}
	if len(reports) != 1 {
		t.Fatalf("reports = %v", reports)
	}
}

func TestDecodeUTF32BE(t *testing.T) {
	in := []byte{0, 0, 0, 'h', 0, 0, 0, 'i'}
	got, _ := decodeAll(t, in, UTF32BE)
	if got != "hi" {
		t.Fatalf("got %q", got)
	}
}

func TestSniffBOMUTF8(t *testing.T) {
	src := byteStream([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'})
	enc, rest := Detect(src, ModeXML)
	if enc.Name != UTF8.Name {
		t.Fatalf("enc = %v", enc.Name)
	}
	var out []byte
	for {
		b, ok := rest.Next()
		if !ok {
			break
		}
		out = append(out, b)
	}
	if string(out) != "\xEF\xBB\xBFhi" {
		t.Fatalf("rest = %q", out)
	}
}

func TestDetectXMLDeclarationSwitchesEncoding(t *testing.T) {
	doc := `<?xml version="1.0" encoding="ISO-8859-1"?>` + "\xe9"
	enc, rest := Detect(byteStream([]byte(doc)), ModeXML)
	if enc.Name != Latin1.Name {
		t.Fatalf("enc = %v", enc.Name)
	}
	got, reports := func() (string, []string) {
		var reports []string
		out := Decode(rest, enc, func(_ Location, e error) {
			reports = append(reports, e.Error())
		})
		var got []rune
		for {
			r, ok := out.Next()
			if !ok {
				break
			}
			got = append(got, r)
		}
		return string(got), reports
	}()
	if len(reports) != 0 {
		t.Fatalf("unexpected reports: %v", reports)
	}
	if r := []rune(got); r[len(r)-1] != 'é' {
		t.Fatalf("got tail %q", got)
	}
}

func TestDecodeInvalidUTF8ReportsAccurateLineAndColumn(t *testing.T) {
	// Two good lines, then a lone continuation byte partway through the
	// third line: the report must land on line 3, past the two good runes
	// that precede it on that line, not at {0, 0}.
	src := []byte("ab\ncd\nef" + "\xff" + "gh")
	var locs []Location
	out := Decode(byteStream(src), UTF8, func(loc Location, _ error) {
		locs = append(locs, loc)
	})
	for {
		if _, ok := out.Next(); !ok {
			break
		}
	}
	if len(locs) != 1 {
		t.Fatalf("reports = %v, want exactly one", locs)
	}
	if locs[0] != (Location{Line: 3, Col: 3}) {
		t.Fatalf("loc = %+v, want {Line:3 Col:3}", locs[0])
	}
}

func TestSniffBOMTransposedUCS4(t *testing.T) {
	be := byteStream([]byte{0xFE, 0xFF, 0x00, 0x00, 'x'})
	enc, _ := Detect(be, ModeXML)
	if enc.Name != UCS4BETransposed.Name {
		t.Fatalf("enc = %v, want %v", enc.Name, UCS4BETransposed.Name)
	}

	le := byteStream([]byte{0x00, 0x00, 0xFF, 0xFE, 'x'})
	enc, _ = Detect(le, ModeXML)
	if enc.Name != UCS4LETransposed.Name {
		t.Fatalf("enc = %v, want %v", enc.Name, UCS4LETransposed.Name)
	}
}

func TestDetectHTMLMetaCharset(t *testing.T) {
	doc := `<html><head><meta charset="windows-1251"></head></html>`
	enc, _ := Detect(byteStream([]byte(doc)), ModeHTML)
	if enc.Name != Windows1251.Name {
		t.Fatalf("enc = %v", enc.Name)
	}
}

func TestDetectDefaultsToWindows1252(t *testing.T) {
	doc := `<html><body>plain</body></html>`
	enc, _ := Detect(byteStream([]byte(doc)), ModeHTML)
	if enc.Name != DefaultHTML.Name {
		t.Fatalf("enc = %v", enc.Name)
	}
}

func TestLookupAliases(t *testing.T) {
	if e, ok := Lookup("UTF-8"); !ok || e.Name != UTF8.Name {
		t.Fatalf("Lookup(UTF-8) = %v, %v", e, ok)
	}
	if _, ok := Lookup("bogus-charset"); ok {
		t.Fatalf("expected unknown label to fail")
	}
}
