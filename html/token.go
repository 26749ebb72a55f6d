// Package html implements the WHATWG-style HTML tokenizer and the
// insertion-mode tree constructor (components E and F), plus the HTML5
// serializer (component H).
package html

import (
	"strconv"
	"strings"

	"github.com/corvidlabs/markup/errs"
	markup "github.com/corvidlabs/markup/core"
	"github.com/corvidlabs/markup/stream"
)

type tokKind int

const (
	tokStartTag tokKind = iota
	tokEndTag
	tokText
	tokComment
	tokDoctype
)

type attr struct {
	name, value string
}

type token struct {
	kind      tokKind
	loc       markup.Location
	name      string
	attrs     []attr
	selfClose bool
	text      string
	dt        markup.Doctype
}

func (t token) attr(name string) (string, bool) {
	for _, a := range t.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// contentModel mirrors the HTML tokenizer's notion of which sub-states
// ("data", "RCDATA", "RAWTEXT", "PLAINTEXT") it runs in; the tree
// constructor switches this after seeing the start tag of an element with
// special content-model rules (spec §4.E).
type contentModel int

const (
	dataContent contentModel = iota
	rcdataContent
	rawtextContent
	plaintextContent
)

// cursor is a reader tracking (line, col) with a pushback stack: runes
// pushed last come back first, so a caller restores a read-ahead run by
// pushing it in reverse. Same shape as the XML tokenizer's cursor,
// specialized for this package so each tokenizer owns its own location
// bookkeeping.
type cursor struct {
	s    *stream.Stream[rune]
	loc  markup.Location
	pend []pendingRune
}

type pendingRune struct {
	r   rune
	loc markup.Location
}

func newCursor(s *stream.Stream[rune]) *cursor {
	return &cursor{s: s, loc: markup.Location{Line: 1, Col: 1}}
}

func (c *cursor) next() (rune, markup.Location, bool) {
	if n := len(c.pend); n > 0 {
		p := c.pend[n-1]
		c.pend = c.pend[:n-1]
		return p.r, p.loc, true
	}
	r, ok := c.s.Next()
	if !ok {
		return 0, c.loc, false
	}
	loc := c.loc
	if r == '\n' {
		c.loc.Line++
		c.loc.Col = 1
	} else {
		c.loc.Col++
	}
	return r, loc, true
}

func (c *cursor) peek() (rune, bool) {
	if n := len(c.pend); n > 0 {
		return c.pend[n-1].r, true
	}
	return c.s.Peek()
}

func (c *cursor) push(r rune, loc markup.Location) {
	c.pend = append(c.pend, pendingRune{r, loc})
}

func (c *cursor) here() markup.Location {
	if n := len(c.pend); n > 0 {
		return c.pend[n-1].loc
	}
	return c.loc
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// tokenizer turns a code-point stream into a stream of token per the
// WHATWG HTML tokenizer's states (spec §4.E), reduced to the subset of
// ~70 states whose distinctions are externally observable in the emitted
// token stream: tag open/name/attribute machinery, the four content
// models, comments, doctype with the quirks table, and character
// reference expansion.
type tokenizer struct {
	c      *cursor
	report func(markup.Location, error)

	mode       contentModel
	endTagName string // the tag name that ends RCDATA/RAWTEXT, lower-cased
	pendingEnd *token // an end tag matched while flushing accumulated text
}

func newTokenizer(src *stream.Stream[rune], report func(markup.Location, error)) *tokenizer {
	return &tokenizer{c: newCursor(src), report: report}
}

func tokens(src *stream.Stream[rune], report func(markup.Location, error)) (*stream.Stream[token], *tokenizer) {
	t := newTokenizer(src, report)
	return stream.New(t.next), t
}

// setRCData switches the tokenizer into RCDATA for endTag (e.g. "title",
// "textarea"); setRawText does the same for RAWTEXT (e.g. "script",
// "style"); setPlaintext is one-way and never exited.
func (t *tokenizer) setRCData(endTag string)  { t.mode = rcdataContent; t.endTagName = endTag }
func (t *tokenizer) setRawText(endTag string) { t.mode = rawtextContent; t.endTagName = endTag }
func (t *tokenizer) setPlaintext()            { t.mode = plaintextContent }

func (t *tokenizer) next() (token, bool) {
	if t.pendingEnd != nil {
		e := *t.pendingEnd
		t.pendingEnd = nil
		return e, true
	}
	switch t.mode {
	case rcdataContent, rawtextContent:
		return t.readRawOrRCData(t.mode == rcdataContent)
	case plaintextContent:
		return t.readPlaintext()
	default:
		return t.readData()
	}
}

func (t *tokenizer) readData() (token, bool) {
	r, loc, ok := t.c.next()
	if !ok {
		return token{}, false
	}
	if r != '<' {
		t.c.push(r, loc)
		return t.readText(loc, true)
	}
	return t.readMarkup(loc)
}

// readText accumulates character data up to the next '<' (or end tag, in
// RCDATA/RAWTEXT mode), expanding character references when decode is
// true.
func (t *tokenizer) readText(loc markup.Location, decode bool) (token, bool) {
	var b strings.Builder
	for {
		r, rloc, ok := t.c.next()
		if !ok {
			break
		}
		if r == '<' {
			t.c.push(r, rloc)
			break
		}
		if decode && r == '&' {
			b.WriteString(t.expandCharRef(rloc, false))
			continue
		}
		if r == 0 {
			if t.report != nil {
				t.report(rloc, errs.BadToken("NUL", "text", "unexpected null character"))
			}
			continue
		}
		b.WriteRune(r)
	}
	return token{kind: tokText, loc: loc, text: b.String()}, true
}

func (t *tokenizer) readPlaintext() (token, bool) {
	r, loc, ok := t.c.next()
	if !ok {
		return token{}, false
	}
	var b strings.Builder
	b.WriteRune(r)
	for {
		r, _, ok := t.c.next()
		if !ok {
			break
		}
		b.WriteRune(r)
	}
	return token{kind: tokText, loc: loc, text: b.String()}, true
}

// readRawOrRCData implements the RCDATA/RAWTEXT states: text accumulates
// verbatim (character references expand only in RCDATA) until the literal
// "</" + endTagName, case-insensitively, followed by a tag-terminating
// character is seen. The matched end tag is buffered in t.pendingEnd and
// returned by the very next call to next, after any accumulated text.
func (t *tokenizer) readRawOrRCData(decode bool) (token, bool) {
	var startLoc markup.Location
	started := false
	var b strings.Builder
	for {
		r, loc, ok := t.c.next()
		if !ok {
			break
		}
		if !started {
			startLoc = loc
			started = true
		}
		if r == '<' {
			if name, matched := t.matchEndTag(); matched {
				t.mode = dataContent
				e := token{kind: tokEndTag, loc: loc, name: name}
				if b.Len() == 0 {
					return e, true
				}
				t.pendingEnd = &e
				break
			}
			b.WriteRune(r)
			continue
		}
		if decode && r == '&' {
			b.WriteString(t.expandCharRef(loc, false))
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return token{}, false
	}
	return token{kind: tokText, loc: startLoc, text: b.String()}, true
}

// matchEndTag peeks (and, on success, consumes) "/" + endTagName + a
// tag-terminating character just after a '<' already consumed by the
// caller. On failure it consumes nothing extra and the '<' stays the
// caller's to emit as text.
func (t *tokenizer) matchEndTag() (string, bool) {
	r, loc, ok := t.c.next()
	if !ok || r != '/' {
		if ok {
			t.c.push(r, loc)
		}
		return "", false
	}
	var consumed []struct {
		r   rune
		loc markup.Location
	}
	consumed = append(consumed, struct {
		r   rune
		loc markup.Location
	}{r, loc})
	want := []rune(t.endTagName)
	for _, w := range want {
		r, loc, ok := t.c.next()
		if !ok || lower(r) != w {
			if ok {
				consumed = append(consumed, struct {
					r   rune
					loc markup.Location
				}{r, loc})
			}
			t.restoreExceptSlash(consumed)
			return "", false
		}
		consumed = append(consumed, struct {
			r   rune
			loc markup.Location
		}{r, loc})
	}
	r, loc, ok := t.c.next()
	if ok && (isSpace(r) || r == '>' || r == '/') {
		t.c.push(r, loc)
		t.skipSpace()
		name := t.endTagName
		// consume through '>' (and any attributes, which are invalid but
		// tolerated) per the RAWTEXT end tag open state.
		for {
			r, _, ok := t.c.next()
			if !ok || r == '>' {
				break
			}
		}
		return name, true
	}
	if ok {
		consumed = append(consumed, struct {
			r   rune
			loc markup.Location
		}{r, loc})
	}
	t.restoreExceptSlash(consumed)
	return "", false
}

func (t *tokenizer) restoreExceptSlash(consumed []struct {
	r   rune
	loc markup.Location
}) {
	for i := len(consumed) - 1; i >= 0; i-- {
		t.c.push(consumed[i].r, consumed[i].loc)
	}
}

func (t *tokenizer) skipSpace() {
	for {
		r, loc, ok := t.c.next()
		if !ok {
			return
		}
		if !isSpace(r) {
			t.c.push(r, loc)
			return
		}
	}
}

func isNameStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameChar(r rune) bool {
	return isNameStart(r) || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == ':' || r == '.'
}

func (t *tokenizer) readName() string {
	var b strings.Builder
	for {
		r, loc, ok := t.c.next()
		if !ok {
			return b.String()
		}
		if b.Len() == 0 {
			if !isNameStart(r) {
				t.c.push(r, loc)
				return b.String()
			}
		} else if !isNameChar(r) {
			t.c.push(r, loc)
			return b.String()
		}
		b.WriteRune(lower(r))
	}
}

func (t *tokenizer) readMarkup(ltLoc markup.Location) (token, bool) {
	r, ok := t.c.peek()
	if !ok {
		if t.report != nil {
			t.report(ltLoc, errs.UnexpectedEOI("tag-open"))
		}
		return token{kind: tokText, loc: ltLoc, text: "<"}, true
	}
	switch {
	case r == '!':
		t.c.next()
		return t.readBang(ltLoc)
	case r == '/':
		t.c.next()
		return t.readEndTag(ltLoc)
	case isNameStart(r):
		return t.readStartTag(ltLoc)
	case r == '?':
		return t.readBogusComment(ltLoc) // XML-style PI is a parse error in HTML; treated as bogus comment
	default:
		// "<" not followed by a name: literal text, per spec.
		return token{kind: tokText, loc: ltLoc, text: "<"}, true
	}
}

func (t *tokenizer) readEndTag(loc markup.Location) (token, bool) {
	r, rloc, ok := t.c.peek2()
	_ = rloc
	if ok && r == '>' {
		t.c.next()
		if t.report != nil {
			t.report(loc, errs.BadToken("</>", "end-tag", "missing end tag name"))
		}
		return t.next()
	}
	if !ok {
		if t.report != nil {
			t.report(loc, errs.UnexpectedEOI("end-tag"))
		}
		return token{kind: tokText, loc: loc, text: "</"}, true
	}
	name := t.readName()
	t.skipToGT(loc, "end-tag")
	return token{kind: tokEndTag, loc: loc, name: name}, true
}

// peek2 peeks at the upcoming rune without disturbing cursor state beyond
// the single-slot pushback the cursor already supports.
func (c *cursor) peek2() (rune, markup.Location, bool) {
	r, ok := c.peek()
	return r, c.here(), ok
}

func (t *tokenizer) skipToGT(loc markup.Location, where string) {
	for {
		r, _, ok := t.c.next()
		if !ok {
			if t.report != nil {
				t.report(loc, errs.UnexpectedEOI(where))
			}
			return
		}
		if r == '>' {
			return
		}
	}
}

func (t *tokenizer) readStartTag(loc markup.Location) (token, bool) {
	name := t.readName()
	attrs, selfClose, eof := t.readAttributes(loc)
	if eof && t.report != nil {
		t.report(loc, errs.UnexpectedEOI("start-tag"))
	}
	return token{kind: tokStartTag, loc: loc, name: name, attrs: attrs, selfClose: selfClose}, true
}

func (t *tokenizer) readAttributes(tagLoc markup.Location) ([]attr, bool, bool) {
	var attrs []attr
	for {
		t.skipSpace()
		r, loc, ok := t.c.next()
		if !ok {
			return attrs, false, true
		}
		if r == '>' {
			return attrs, false, false
		}
		if r == '/' {
			r2, loc2, ok2 := t.c.next()
			if ok2 && r2 == '>' {
				return attrs, true, false
			}
			if ok2 {
				t.c.push(r2, loc2)
			}
			continue
		}
		t.c.push(r, loc)
		name := t.readAttrName()
		if name == "" {
			t.c.next()
			continue
		}
		t.skipSpace()
		value := ""
		if r2, loc2, ok2 := t.c.next(); ok2 {
			if r2 == '=' {
				t.skipSpace()
				value = t.readAttrValue(loc2)
			} else {
				t.c.push(r2, loc2)
			}
		}
		attrs = appendAttr(attrs, attr{name: name, value: value}, loc, t.report)
		_ = tagLoc
	}
}

func (t *tokenizer) readAttrName() string {
	var b strings.Builder
	for {
		r, loc, ok := t.c.next()
		if !ok {
			return b.String()
		}
		if isSpace(r) || r == '=' || r == '>' || r == '/' {
			t.c.push(r, loc)
			return b.String()
		}
		b.WriteRune(lower(r))
	}
}

func appendAttr(attrs []attr, a attr, loc markup.Location, report func(markup.Location, error)) []attr {
	for _, existing := range attrs {
		if existing.name == a.name {
			if report != nil {
				report(loc, errs.BadToken(a.name, "attribute-name", "duplicate attribute, first value wins"))
			}
			return attrs
		}
	}
	return append(attrs, a)
}

func (t *tokenizer) readAttrValue(loc markup.Location) string {
	r, rloc, ok := t.c.next()
	if !ok {
		return ""
	}
	var quote rune
	unquoted := false
	switch r {
	case '"', '\'':
		quote = r
	default:
		unquoted = true
		t.c.push(r, rloc)
	}
	var b strings.Builder
	for {
		r, rloc2, ok := t.c.next()
		if !ok {
			return b.String()
		}
		if !unquoted && r == quote {
			return b.String()
		}
		if unquoted && (isSpace(r) || r == '>') {
			t.c.push(r, rloc2)
			return b.String()
		}
		if r == '&' {
			b.WriteString(t.expandCharRef(rloc2, !unquoted))
			continue
		}
		b.WriteRune(r)
	}
}

// expandCharRef handles a reference just after '&' was consumed, in text
// (inAttr=false) or an attribute value (inAttr=true). On failure it
// reports BadToken and returns the literal text unchanged, per spec §4.C's
// XML analog and the HTML specification's "ambiguous ampersand" handling.
func (t *tokenizer) expandCharRef(ampLoc markup.Location, inAttr bool) string {
	r, loc, ok := t.c.peek2()
	if !ok || isSpace(r) || r == '<' || r == '&' {
		return "&"
	}
	if r == '#' {
		t.c.next()
		return t.expandNumericRef(ampLoc)
	}
	var name strings.Builder
	var consumed []struct {
		r   rune
		loc markup.Location
	}
	for {
		r, loc, ok := t.c.next()
		if !ok {
			break
		}
		consumed = append(consumed, struct {
			r   rune
			loc markup.Location
		}{r, loc})
		if r == ';' {
			if exp, found := namedEntities[name.String()]; found {
				return exp
			}
			break
		}
		if !(r == '-' || r == '.' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			break
		}
		name.WriteRune(r)
	}
	// no match: restore everything consumed after '&' and report.
	for i := len(consumed) - 1; i >= 0; i-- {
		t.c.push(consumed[i].r, consumed[i].loc)
	}
	if t.report != nil {
		t.report(ampLoc, errs.BadToken("&", "text", "replace with '&amp;'"))
	}
	_ = loc
	return "&"
}

func (t *tokenizer) expandNumericRef(ampLoc markup.Location) string {
	hex := false
	if r, loc, ok := t.c.next(); ok {
		if r == 'x' || r == 'X' {
			hex = true
		} else {
			t.c.push(r, loc)
		}
	}
	var digits strings.Builder
	for {
		r, loc, ok := t.c.next()
		if !ok {
			break
		}
		isDigit := (r >= '0' && r <= '9') || (hex && ((r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')))
		if !isDigit {
			if r != ';' {
				t.c.push(r, loc)
			}
			break
		}
		digits.WriteRune(r)
	}
	if digits.Len() == 0 {
		if t.report != nil {
			t.report(ampLoc, errs.BadToken("&#", "text", "expected digits"))
		}
		return "&#"
	}
	base := 10
	if hex {
		base = 16
	}
	n, err := strconv.ParseInt(digits.String(), base, 32)
	if err != nil || n == 0 || n > 0x10FFFF || (n >= 0xD800 && n <= 0xDFFF) {
		if t.report != nil {
			t.report(ampLoc, errs.BadToken(digits.String(), "text", "invalid numeric character reference"))
		}
		return "�"
	}
	if repl, ok := c1ControlReplacements[rune(n)]; ok {
		return string(repl)
	}
	return string(rune(n))
}

// c1ControlReplacements follows the specification's table mapping a
// handful of illegal Windows-1252-range numeric references to the Unicode
// characters browsers historically render for them.
var c1ControlReplacements = map[rune]rune{
	0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„',
	0x85: '…', 0x86: '†', 0x87: '‡', 0x88: 'ˆ',
	0x89: '‰', 0x8A: 'Š', 0x8B: '‹', 0x8C: 'Œ',
	0x8E: 'Ž', 0x91: '‘', 0x92: '’', 0x93: '“',
	0x94: '”', 0x95: '•', 0x96: '–', 0x97: '—',
	0x98: '˜', 0x99: '™', 0x9A: 'š', 0x9B: '›',
	0x9C: 'œ', 0x9E: 'ž', 0x9F: 'Ÿ',
}

func (t *tokenizer) readBogusComment(loc markup.Location) (token, bool) {
	body, _ := t.readUntil(">")
	return token{kind: tokComment, loc: loc, text: body}, true
}

func (t *tokenizer) readBang(loc markup.Location) (token, bool) {
	switch {
	case t.peekLiteral("--"):
		t.c.next()
		t.c.next()
		return t.readComment(loc)
	case t.peekLiteralFold("DOCTYPE"):
		for range "DOCTYPE" {
			t.c.next()
		}
		return t.readDoctype(loc)
	case t.peekLiteral("[CDATA["):
		for range "[CDATA[" {
			t.c.next()
		}
		body, ok := t.readUntil("]]>")
		if !ok && t.report != nil {
			t.report(loc, errs.UnexpectedEOI("CDATA"))
		}
		return token{kind: tokText, loc: loc, text: body}, true
	default:
		body, _ := t.readUntil(">")
		return token{kind: tokComment, loc: loc, text: body}, true
	}
}

func (t *tokenizer) peekLiteral(literal string) bool { return t.peekLiteralCase(literal, false) }
func (t *tokenizer) peekLiteralFold(literal string) bool {
	return t.peekLiteralCase(literal, true)
}

func (t *tokenizer) peekLiteralCase(literal string, fold bool) bool {
	want := []rune(literal)
	var got []struct {
		r   rune
		loc markup.Location
	}
	matched := true
	for _, w := range want {
		r, loc, ok := t.c.next()
		cmp := r
		if fold {
			cmp = lower(r)
			w = lower(w)
		}
		if !ok || cmp != w {
			if ok {
				got = append(got, struct {
					r   rune
					loc markup.Location
				}{r, loc})
			}
			matched = false
			break
		}
		got = append(got, struct {
			r   rune
			loc markup.Location
		}{r, loc})
	}
	for i := len(got) - 1; i >= 0; i-- {
		t.c.push(got[i].r, got[i].loc)
	}
	return matched
}

func (t *tokenizer) readUntil(delim string) (string, bool) {
	var b strings.Builder
	dr := []rune(delim)
	match := 0
	for {
		r, _, ok := t.c.next()
		if !ok {
			return b.String(), false
		}
		if r == dr[match] {
			match++
			if match == len(dr) {
				return b.String(), true
			}
			continue
		}
		if match > 0 {
			b.WriteString(string(dr[:match]))
			match = 0
			if r == dr[0] {
				match = 1
				continue
			}
		}
		b.WriteRune(r)
	}
}

func (t *tokenizer) readComment(loc markup.Location) (token, bool) {
	body, ok := t.readUntil("-->")
	if !ok && t.report != nil {
		t.report(loc, errs.UnexpectedEOI("comment"))
	}
	return token{kind: tokComment, loc: loc, text: body}, true
}

func (t *tokenizer) readDoctype(loc markup.Location) (token, bool) {
	t.skipSpace()
	name := t.readName()
	dt := markup.Doctype{}
	if name != "" {
		dt.Name = &name
	}
	t.skipSpace()
	rest, ok := t.readUntil(">")
	if !ok && t.report != nil {
		t.report(loc, errs.UnexpectedEOI("doctype"))
	}
	parseDoctypeIDs(rest, &dt)
	dt.ForceQuirks = dt.ForceQuirks || isForceQuirksDoctype(&dt)
	raw := rest
	dt.Raw = &raw
	return token{kind: tokDoctype, loc: loc, dt: dt}, true
}

func parseDoctypeIDs(body string, dt *markup.Doctype) {
	rest := strings.TrimLeft(body, " \t\r\n\f")
	upper := strings.ToUpper(rest)
	switch {
	case strings.HasPrefix(upper, "PUBLIC"):
		rest = strings.TrimLeft(rest[len("PUBLIC"):], " \t\r\n\f")
		pub, rest2, ok := readQuoted(rest)
		if !ok {
			dt.ForceQuirks = true
			return
		}
		dt.PublicID = &pub
		rest2 = strings.TrimLeft(rest2, " \t\r\n\f")
		if sys, _, ok := readQuoted(rest2); ok {
			dt.SystemID = &sys
		}
	case strings.HasPrefix(upper, "SYSTEM"):
		rest = strings.TrimLeft(rest[len("SYSTEM"):], " \t\r\n\f")
		if sys, _, ok := readQuoted(rest); ok {
			dt.SystemID = &sys
		} else {
			dt.ForceQuirks = true
		}
	}
}

func readQuoted(s string) (string, string, bool) {
	if len(s) == 0 || (s[0] != '"' && s[0] != '\'') {
		return "", s, false
	}
	q := s[0]
	end := strings.IndexByte(s[1:], q)
	if end < 0 {
		return "", s, false
	}
	return s[1 : 1+end], s[2+end:], true
}

// isForceQuirksDoctype implements the specification's quirks-mode table:
// no name "html" at all, or a public/system identifier prefix flagged
// legacy-incompatible.
func isForceQuirksDoctype(dt *markup.Doctype) bool {
	if dt.Name == nil || strings.ToLower(*dt.Name) != "html" {
		return true
	}
	if dt.PublicID == nil {
		return false
	}
	lower := strings.ToLower(*dt.PublicID)
	for _, prefix := range []string{
		"-//w3c//dtd html 4.0 frameset//",
		"-//w3c//dtd html 4.0 transitional//",
		"-//w3c//dtd html 3.2",
		"-//ietf//dtd html",
		"-//w3o//dtd w3 html strict",
		"-//webtechs//dtd mozilla html",
	} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
