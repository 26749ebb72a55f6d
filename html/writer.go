package html

import (
	"strings"

	"github.com/corvidlabs/markup/errs"
	markup "github.com/corvidlabs/markup/core"
	"github.com/corvidlabs/markup/stream"
)

type writer struct {
	opts   markup.Options
	report func(markup.Location, error)

	open []markup.Name

	// pendingVoid holds the local name of a just-written void element
	// until its matching EndElement signal arrives; any other signal
	// seen in between is misnested content around a childless element.
	pendingVoid string

	buf  []byte
	done bool
}

// WriteHTML serializes a stream of located signals as HTML5 text per spec
// §4.H: void elements never get a closing tag, raw-text element bodies are
// written verbatim (forbidding the element's own closing sequence),
// boolean attributes are written bare, and XmlDeclaration/ProcessingInstruction
// signals are silently dropped rather than erroring (HTML has no such
// constructs).
func WriteHTML(sigs *stream.Stream[markup.Located], opts markup.Options) *stream.Stream[byte] {
	w := &writer{opts: opts}
	w.report = func(loc markup.Location, err error) { opts.report(loc, err) }
	i := 0
	return stream.New(func() (byte, bool) {
		for i >= len(w.buf) {
			if w.done {
				return 0, false
			}
			w.buf = w.buf[:0]
			i = 0
			w.step(sigs)
		}
		b := w.buf[i]
		i++
		return b, true
	})
}

func (w *writer) step(sigs *stream.Stream[markup.Located]) {
	loc, ok := sigs.Next()
	if !ok {
		if len(w.open) > 0 {
			w.report(markup.Location{}, errs.UnexpectedEOI("document"))
		}
		for len(w.open) > 0 {
			w.closeOne()
		}
		w.done = true
		return
	}
	if w.pendingVoid != "" {
		if end, isEnd := loc.Sig.(markup.EndElement); isEnd && end.Name.Local == w.pendingVoid && end.Name.Space == htmlNS {
			w.pendingVoid = ""
			return
		}
		w.report(loc.Loc, errs.BadContent(w.pendingVoid))
		w.pendingVoid = ""
	}
	switch sig := loc.Sig.(type) {
	case markup.XMLDeclaration, markup.ProcessingInstruction:
		// no equivalent construct in HTML; dropped rather than erroring.
	case markup.Doctype:
		w.writeString("<!DOCTYPE html>")
	case markup.Comment:
		w.writeString("<!--")
		w.writeString(sig.Body)
		w.writeString("-->")
	case markup.Text:
		w.writeText(loc.Loc, sig.String())
	case markup.StartElement:
		w.writeStart(loc.Loc, sig)
	case markup.EndElement:
		w.writeEnd(sig)
	}
}

func (w *writer) writeString(s string) { w.buf = append(w.buf, s...) }

// writeText escapes the ampersand and the less-than sign everywhere; a
// bare greater-than sign needs no escaping in HTML5 text, unlike XML.
// Inside a raw-text element's body (script/style/...) nothing is escaped,
// but a body that itself contains the element's own closing sequence is
// reported — such a signal could never have been produced by parsing the
// serialized output back.
func (w *writer) writeText(loc markup.Location, s string) {
	if len(w.open) > 0 {
		if tag := w.open[len(w.open)-1].Local; rawTextElements[tag] {
			if containsClosingSequence(s, tag) {
				w.report(loc, errs.BadContent(tag))
			}
			w.writeString(s)
			return
		}
	}
	for _, r := range s {
		if r == '&' {
			w.writeString("&amp;")
		} else if r == '<' {
			w.writeString("&lt;")
		} else {
			w.buf = append(w.buf, string(r)...)
		}
	}
}

// writeAttrValue escapes the ampersand and the double quote, the minimum
// needed to keep a double-quoted attribute value well-formed.
func writeAttrValue(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '&' {
			b.WriteString("&amp;")
		} else if r == '"' {
			b.WriteString("&quot;")
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// containsClosingSequence reports whether s contains tag's own closing
// tag, case-insensitively, the one substring a raw-text element's body
// must never contain verbatim.
func containsClosingSequence(s, tag string) bool {
	return strings.Contains(strings.ToLower(s), "</"+strings.ToLower(tag))
}

// needsAttrQuotes reports whether value requires quoting: empty, or
// containing whitespace, '"', '\'', '=', '<', '>' or '`' — the WHATWG
// unquoted-attribute-value-state character set.
func needsAttrQuotes(value string) bool {
	if value == "" {
		return true
	}
	for _, r := range value {
		switch r {
		case ' ', '\t', '\n', '\f', '\r', '"', '\'', '=', '<', '>', '`':
			return true
		}
	}
	return false
}

// writeAttr writes ` name` followed by its value, quoted unless
// needsAttrQuotes says the bare form is unambiguous.
func (w *writer) writeAttr(a markup.Attribute) {
	w.writeString(" ")
	w.writeString(a.Name.Local)
	w.writeString("=")
	if needsAttrQuotes(a.Value) {
		w.writeString(`"`)
		w.writeString(writeAttrValue(a.Value))
		w.writeString(`"`)
	} else {
		w.writeString(writeAttrValue(a.Value))
	}
}

// booleanAttrs are written bare (no ="value") whenever their value equals
// their own name or is empty, the common idiom for hand-authored HTML.
var booleanAttrs = map[string]bool{
	"checked": true, "disabled": true, "selected": true, "readonly": true,
	"required": true, "multiple": true, "hidden": true, "autofocus": true,
	"autoplay": true, "controls": true, "default": true, "defer": true,
	"loop": true, "muted": true, "novalidate": true, "open": true,
	"async": true, "ismap": true, "itemscope": true, "nomodule": true,
	"reversed": true,
}

func (w *writer) writeStart(loc markup.Location, sig markup.StartElement) {
	if sig.Name.Space != htmlNS {
		w.writeForeignStart(sig)
		return
	}

	tag := sig.Name.Local
	w.writeString("<")
	w.writeString(tag)
	for _, a := range sig.Attr {
		if booleanAttrs[a.Name.Local] && (a.Value == "" || strings.EqualFold(a.Value, a.Name.Local)) {
			w.writeString(" ")
			w.writeString(a.Name.Local)
			continue
		}
		w.writeAttr(a)
	}
	w.writeString(">")

	if voidElements[tag] {
		w.pendingVoid = tag
		return
	}
	w.open = append(w.open, sig.Name)
}

// writeForeignStart serializes an SVG/MathML element: attributes never
// get the boolean-attribute treatment HTML gives them, and the element
// always gets a real end tag since foreign content has no void elements.
func (w *writer) writeForeignStart(sig markup.StartElement) {
	w.writeString("<")
	w.writeString(sig.Name.Local)
	for _, a := range sig.Attr {
		w.writeAttr(a)
	}
	w.writeString(">")
	w.open = append(w.open, sig.Name)
}

func (w *writer) writeEnd(sig markup.EndElement) {
	if len(w.open) == 0 {
		return
	}
	w.closeOne()
}

func (w *writer) closeOne() {
	name := w.open[len(w.open)-1]
	w.open = w.open[:len(w.open)-1]
	w.writeString("</" + name.Local + ">")
}
