package xml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corvidlabs/markup/errs"
	markup "github.com/corvidlabs/markup/core"
	"github.com/corvidlabs/markup/stream"
)

// writerNS is one scope of the serializer's prefix-to-URI stack, the
// write-side mirror of the parser's nsScope.
type writerNS struct {
	prefixes map[string]string // prefix -> URI bound in this scope
	byURI    map[string]string // URI -> prefix, reverse lookup for reuse
}

type writer struct {
	opts   markup.Options
	report func(markup.Location, error)

	nsStack  []writerNS
	open     []markup.Name
	nextGenN int

	buf  []byte
	done bool
	err  error
}

// WriteXML serializes a stream of located signals into XML bytes per spec
// §4.G: attribute escaping, namespace-prefix allocation, and a balanced
// EndElement for every StartElement even if the input stream runs out
// first (reporting UnexpectedEoi in that case).
func WriteXML(sigs *stream.Stream[markup.Located], opts markup.Options) *stream.Stream[byte] {
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
		for len(w.open) > 0 {
			w.report(markup.Location{}, errs.UnexpectedEOI("document"))
			break
		}
		for len(w.open) > 0 {
			w.closeOne()
		}
		w.done = true
		return
	}
	switch sig := loc.Sig.(type) {
	case markup.XMLDeclaration:
		w.writeXMLDecl(sig)
	case markup.Doctype:
		w.writeDoctype(sig)
	case markup.Comment:
		w.writeString("<!--")
		w.writeString(sig.Body)
		w.writeString("-->")
	case markup.ProcessingInstruction:
		w.writeString("<?")
		w.writeString(sig.Target)
		if sig.Body != "" {
			w.writeString(" ")
			w.writeString(sig.Body)
		}
		w.writeString("?>")
	case markup.Text:
		w.writeText(sig.String())
	case markup.StartElement:
		w.writeStart(loc.Loc, sig)
	case markup.EndElement:
		w.writeEnd(sig)
	}
}

func (w *writer) writeString(s string) { w.buf = append(w.buf, s...) }

func (w *writer) writeXMLDecl(d markup.XMLDeclaration) {
	w.writeString(`<?xml version="`)
	w.writeString(d.Version)
	w.writeString(`"`)
	if d.Encoding != nil {
		w.writeString(` encoding="`)
		w.writeString(*d.Encoding)
		w.writeString(`"`)
	}
	if d.Standalone != nil {
		w.writeString(` standalone="`)
		if *d.Standalone {
			w.writeString("yes")
		} else {
			w.writeString("no")
		}
		w.writeString(`"`)
	}
	w.writeString("?>")
}

func (w *writer) writeDoctype(d markup.Doctype) {
	w.writeString("<!DOCTYPE")
	if d.Name != nil {
		w.writeString(" ")
		w.writeString(*d.Name)
	}
	switch {
	case d.PublicID != nil:
		w.writeString(` PUBLIC "`)
		w.writeString(*d.PublicID)
		w.writeString(`"`)
		if d.SystemID != nil {
			w.writeString(` "`)
			w.writeString(*d.SystemID)
			w.writeString(`"`)
		}
	case d.SystemID != nil:
		w.writeString(` SYSTEM "`)
		w.writeString(*d.SystemID)
		w.writeString(`"`)
	}
	w.writeString(">")
}

// writeText escapes '<', '&', and '>' per spec §4.G (the last only when
// preceded by "]]", the one context where a literal '>' is unsafe in XML).
func (w *writer) writeText(s string) {
	prevPrevBracket, prevBracket := false, false
	for _, r := range s {
		switch r {
		case '<':
			w.writeString("&lt;")
		case '&':
			w.writeString("&amp;")
		case '>':
			if prevPrevBracket && prevBracket {
				w.writeString("&gt;")
			} else {
				w.writeString(">")
			}
		default:
			w.buf = append(w.buf, string(r)...)
		}
		prevPrevBracket, prevBracket = prevBracket, r == ']'
	}
}

// writeAttrValue escapes '<', '&', '"' and control characters using
// numeric references, per spec §4.G.
func writeAttrValue(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '<':
			b.WriteString("&lt;")
		case r == '&':
			b.WriteString("&amp;")
		case r == '"':
			b.WriteString("&quot;")
		case r < 0x20 && r != '\t' && r != '\n':
			fmt.Fprintf(&b, "&#x%X;", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (w *writer) writeStart(loc markup.Location, sig markup.StartElement) {
	scope := writerNS{prefixes: map[string]string{}, byURI: map[string]string{}}

	elemPrefix := w.ensurePrefix(sig.Name.Space, &scope, loc, true)

	type attrOut struct {
		qname, value string
	}
	outs := make([]attrOut, 0, len(sig.Attr))
	for _, a := range sig.Attr {
		prefix := ""
		if a.Name.Space != "" {
			prefix = w.ensurePrefix(a.Name.Space, &scope, loc, false)
		}
		qn := a.Name.Local
		if prefix != "" {
			qn = prefix + ":" + qn
		}
		outs = append(outs, attrOut{qn, a.Value})
	}

	w.nsStack = append(w.nsStack, scope)
	w.open = append(w.open, sig.Name)

	w.writeString("<")
	qname := sig.Name.Local
	if elemPrefix != "" {
		qname = elemPrefix + ":" + qname
	}
	w.writeString(qname)
	for prefix, uri := range scope.prefixes {
		if prefix == "" {
			w.writeString(` xmlns="`)
		} else {
			w.writeString(` xmlns:` + prefix + `="`)
		}
		w.writeString(writeAttrValue(uri))
		w.writeString(`"`)
	}
	for _, a := range outs {
		w.writeString(" " + a.qname + `="` + writeAttrValue(a.value) + `"`)
	}
	w.writeString(">")
}

// ensurePrefix finds or allocates a prefix for uri, binding it in scope if
// newly introduced. isElement controls whether an unprefixed empty-URI
// element is left bare (the common case) rather than triggering a lookup.
func (w *writer) ensurePrefix(uri string, scope *writerNS, loc markup.Location, isElement bool) string {
	if uri == "" {
		return ""
	}
	if prefix, ok := w.inScope(uri); ok {
		return prefix
	}
	if prefix, ok := scope.byURI[uri]; ok {
		return prefix
	}

	var prefix string
	if w.opts.Prefix != nil {
		if p, ok := w.opts.Prefix(uri); ok {
			prefix = p
		} else {
			w.report(loc, errs.BadNamespace(uri))
		}
	}
	if prefix == "" && isElement {
		// no callback or it declined: bind uri as this element's default
		// namespace rather than failing outright.
		scope.prefixes[""] = uri
		scope.byURI[uri] = ""
		return ""
	}
	if prefix == "" {
		prefix = w.genPrefix()
	}
	scope.prefixes[prefix] = uri
	scope.byURI[uri] = prefix
	return prefix
}

func (w *writer) genPrefix() string {
	w.nextGenN++
	return "ns" + strconv.Itoa(w.nextGenN)
}

func (w *writer) inScope(uri string) (string, bool) {
	for i := len(w.nsStack) - 1; i >= 0; i-- {
		if p, ok := w.nsStack[i].byURI[uri]; ok {
			return p, true
		}
	}
	return "", false
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

	prefix, _ := w.inScope(name.Space)
	w.nsStack = w.nsStack[:len(w.nsStack)-1]

	qname := name.Local
	if name.Space != "" && prefix != "" {
		qname = prefix + ":" + qname
	}
	w.writeString("</" + qname + ">")
}
