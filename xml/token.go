// Package xml implements the XML tokenizer and tree constructor
// (components C and D) and the XML serializer (component G).
package xml

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
	tokEmptyTag
	tokText
	tokComment
	tokCDATA
	tokPI
	tokDoctype
	tokXMLDecl
	tokOtherDecl
)

type token struct {
	kind  tokKind
	loc   markup.Location
	name  string
	attrs []rawAttr
	text  string
	dt    markup.Doctype
	decl  markup.XMLDeclaration
}

type rawAttr struct {
	name  string
	value string
}

// cursor is a reader over a code-point stream, tracking (line, col) as
// spec §3 defines it, with a pushback stack: runes pushed last come back
// first, so a caller restores a read-ahead run by pushing it in reverse.
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

// tokenizer turns a code-point stream into a stream of token, resolving
// entity references in text and attribute values per spec §4.C.
type tokenizer struct {
	c      *cursor
	report func(markup.Location, error)
	entity func(string) (string, bool)
	start  bool // have we seen the first token yet (for <?xml ...?> position)
}

func newTokenizer(src *stream.Stream[rune], report func(markup.Location, error), entity func(string) (string, bool)) *tokenizer {
	return &tokenizer{c: newCursor(src), report: report, entity: entity}
}

func tokens(src *stream.Stream[rune], report func(markup.Location, error), entity func(string) (string, bool)) *stream.Stream[token] {
	t := newTokenizer(src, report, entity)
	return stream.New(t.next)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isNameStart(r rune) bool {
	return r == '_' || r == ':' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7F
}

func isNameChar(r rune) bool {
	return isNameStart(r) || r == '-' || r == '.' || (r >= '0' && r <= '9')
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
		b.WriteRune(r)
	}
}

// readUntil accumulates runes until the literal sequence delim is seen
// (which is consumed) or input ends (which is reported to the caller via
// ok=false). Returns the text before delim.
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

// next produces the next token, or ok=false at end of input.
func (t *tokenizer) next() (token, bool) {
	r, loc, ok := t.c.next()
	if !ok {
		return token{}, false
	}
	if r != '<' {
		t.c.push(r, loc)
		return t.readText(loc)
	}
	return t.readMarkup(loc)
}

func (t *tokenizer) readText(loc markup.Location) (token, bool) {
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
		if r == '&' {
			b.WriteString(t.expandEntity(rloc))
			continue
		}
		b.WriteRune(r)
	}
	return token{kind: tokText, loc: loc, text: b.String()}, true
}

// expandEntity handles a reference starting just after '&' was consumed.
// On success it returns the expansion; on failure (spec §4.C recovery) it
// reports BadToken and returns the literal "&name;" text unchanged.
func (t *tokenizer) expandEntity(ampLoc markup.Location) string {
	var name strings.Builder
	consumed := []rune{'&'}
	for {
		r, loc, ok := t.c.next()
		if !ok {
			break
		}
		consumed = append(consumed, r)
		if r == ';' {
			raw := name.String()
			if exp, ok := resolveEntity(raw, t.entity); ok {
				return exp
			}
			if t.report != nil {
				t.report(ampLoc, errs.BadToken("&", "text", "replace with '&amp;'"))
			}
			return "&" + raw + ";"
		}
		if isSpace(r) || r == '&' || r == '<' {
			t.c.push(r, loc)
			break
		}
		name.WriteRune(r)
	}
	if t.report != nil {
		t.report(ampLoc, errs.BadToken("&", "text", "replace with '&amp;'"))
	}
	return "&" + name.String()
}

func resolveEntity(name string, userEntity func(string) (string, bool)) (string, bool) {
	if name == "" {
		return "", false
	}
	if r, ok := builtin[name]; ok {
		return string(r), true
	}
	if strings.HasPrefix(name, "#x") || strings.HasPrefix(name, "#X") {
		if n, err := strconv.ParseInt(name[2:], 16, 32); err == nil {
			return string(rune(n)), true
		}
		return "", false
	}
	if strings.HasPrefix(name, "#") {
		if n, err := strconv.ParseInt(name[1:], 10, 32); err == nil {
			return string(rune(n)), true
		}
		return "", false
	}
	if userEntity != nil {
		if exp, ok := userEntity(name); ok {
			return exp, true
		}
	}
	return "", false
}

func (t *tokenizer) readMarkup(ltLoc markup.Location) (token, bool) {
	r, loc, ok := t.c.peekRune()
	_ = loc
	if !ok {
		if t.report != nil {
			t.report(ltLoc, errs.UnexpectedEOI("tag-open"))
		}
		return token{kind: tokText, loc: ltLoc, text: "<"}, true
	}
	switch {
	case r == '?':
		t.c.next()
		return t.readPI(ltLoc)
	case r == '/':
		t.c.next()
		return t.readEndTag(ltLoc)
	case r == '!':
		t.c.next()
		return t.readBang(ltLoc)
	default:
		return t.readStartTag(ltLoc)
	}
}

func (c *cursor) peekRune() (rune, markup.Location, bool) {
	r, ok := c.peek()
	return r, c.here(), ok
}

func (t *tokenizer) readEndTag(loc markup.Location) (token, bool) {
	name := t.readName()
	t.skipSpace()
	t.expectGT("end-tag", loc)
	return token{kind: tokEndTag, loc: loc, name: name}, true
}

func (t *tokenizer) expectGT(where string, loc markup.Location) {
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
	attrs, selfClose := t.readAttributes(loc)
	kind := tokStartTag
	if selfClose {
		kind = tokEmptyTag
	}
	return token{kind: kind, loc: loc, name: name, attrs: attrs}, true
}

func (t *tokenizer) readAttributes(tagLoc markup.Location) ([]rawAttr, bool) {
	var attrs []rawAttr
	for {
		t.skipSpace()
		r, loc, ok := t.c.next()
		if !ok {
			if t.report != nil {
				t.report(tagLoc, errs.UnexpectedEOI("start-tag"))
			}
			return attrs, false
		}
		if r == '>' {
			return attrs, false
		}
		if r == '/' {
			t.skipSpace()
			t.expectGT("start-tag", loc)
			return attrs, true
		}
		t.c.push(r, loc)
		name := t.readName()
		if name == "" {
			// unrecoverable-looking byte inside a tag: report and skip it.
			if t.report != nil {
				t.report(loc, errs.BadToken(string(r), "attribute-name", "expected attribute name"))
			}
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
		attrs = appendAttr(attrs, rawAttr{name: name, value: value}, loc, t.report)
	}
}

// appendAttr enforces "duplicates on the same element are a reported
// error and the first value wins" (data model invariant).
func appendAttr(attrs []rawAttr, a rawAttr, loc markup.Location, report func(markup.Location, error)) []rawAttr {
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
		if t.report != nil {
			t.report(loc, errs.UnexpectedEOI("attribute-value"))
		}
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
			if t.report != nil {
				t.report(loc, errs.UnexpectedEOI("attribute-value"))
			}
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
			b.WriteString(t.expandEntity(rloc2))
			continue
		}
		if r == '<' {
			if t.report != nil {
				t.report(rloc2, errs.BadToken("<", "attribute-value", "literal '<' must be escaped"))
			}
		}
		b.WriteRune(r)
	}
}

func (t *tokenizer) readPI(loc markup.Location) (token, bool) {
	name := t.readName()
	if strings.EqualFold(name, "xml") {
		return t.readXMLDecl(loc)
	}
	t.skipSpace()
	body, ok := t.readUntil("?>")
	if !ok && t.report != nil {
		t.report(loc, errs.UnexpectedEOI("processing-instruction"))
	}
	return token{kind: tokPI, loc: loc, name: name, text: strings.TrimPrefix(body, " ")}, true
}

func (t *tokenizer) readXMLDecl(loc markup.Location) (token, bool) {
	t.skipSpace()
	body, ok := t.readUntil("?>")
	if !ok && t.report != nil {
		t.report(loc, errs.UnexpectedEOI("xml-declaration"))
	}
	decl := markup.XMLDeclaration{Version: "1.0"}
	if v, found := findDeclAttr(body, "version"); found {
		decl.Version = v
	}
	if v, found := findDeclAttr(body, "encoding"); found {
		decl.Encoding = &v
	}
	if v, found := findDeclAttr(body, "standalone"); found {
		b := v == "yes"
		decl.Standalone = &b
	}
	return token{kind: tokXMLDecl, loc: loc, decl: decl}, true
}

func findDeclAttr(body, name string) (string, bool) {
	idx := strings.Index(body, name)
	for idx >= 0 {
		rest := body[idx+len(name):]
		trimmed := strings.TrimLeft(rest, " \t\r\n")
		if strings.HasPrefix(trimmed, "=") {
			trimmed = strings.TrimLeft(trimmed[1:], " \t\r\n")
			if len(trimmed) > 0 && (trimmed[0] == '"' || trimmed[0] == '\'') {
				q := trimmed[0]
				end := strings.IndexByte(trimmed[1:], q)
				if end >= 0 {
					return trimmed[1 : 1+end], true
				}
			}
		}
		next := strings.Index(body[idx+1:], name)
		if next < 0 {
			break
		}
		idx = idx + 1 + next
	}
	return "", false
}

func (t *tokenizer) readBang(loc markup.Location) (token, bool) {
	switch {
	case t.peekLiteral("--"):
		t.c.next()
		t.c.next()
		return t.readComment(loc)
	case t.peekLiteral("[CDATA["):
		for range "[CDATA[" {
			t.c.next()
		}
		return t.readCDATA(loc)
	case t.peekLiteral("DOCTYPE"):
		for range "DOCTYPE" {
			t.c.next()
		}
		return t.readDoctype(loc)
	default:
		body, ok := t.readUntil(">")
		if !ok && t.report != nil {
			t.report(loc, errs.UnexpectedEOI("declaration-subset"))
		}
		return token{kind: tokOtherDecl, loc: loc, text: body}, true
	}
}

// peekLiteral reports whether the upcoming runes spell literal without
// consuming them: it reads up to len(literal) runes and pushes them back
// onto the cursor's pushback stack in reverse order.
func (t *tokenizer) peekLiteral(literal string) bool {
	want := []rune(literal)
	var got []struct {
		r   rune
		loc markup.Location
	}
	matched := true
	for _, w := range want {
		r, loc, ok := t.c.next()
		if !ok || r != w {
			matched = false
			if ok {
				got = append(got, struct {
					r   rune
					loc markup.Location
				}{r, loc})
			}
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

func (t *tokenizer) readComment(loc markup.Location) (token, bool) {
	body, ok := t.readUntil("-->")
	if !ok && t.report != nil {
		t.report(loc, errs.UnexpectedEOI("comment"))
	}
	return token{kind: tokComment, loc: loc, text: body}, true
}

func (t *tokenizer) readCDATA(loc markup.Location) (token, bool) {
	body, ok := t.readUntil("]]>")
	if !ok && t.report != nil {
		t.report(loc, errs.UnexpectedEOI("CDATA"))
	}
	return token{kind: tokCDATA, loc: loc, text: body}, true
}

func (t *tokenizer) readDoctype(loc markup.Location) (token, bool) {
	t.skipSpace()
	name := t.readName()
	dt := markup.Doctype{}
	if name != "" {
		dt.Name = &name
	}
	t.skipSpace()
	body, ok := t.readBalanced()
	if !ok && t.report != nil {
		t.report(loc, errs.UnexpectedEOI("doctype"))
	}
	parseDoctypeIDs(body, &dt)
	raw := body
	dt.Raw = &raw
	return token{kind: tokDoctype, loc: loc, dt: dt}, true
}

// readBalanced reads up to the '>' that closes the DOCTYPE, tracking `[...]`
// internal-subset nesting so an internal subset's own '>' characters
// (inside markup declarations) don't end the doctype early.
func (t *tokenizer) readBalanced() (string, bool) {
	var b strings.Builder
	depth := 0
	for {
		r, _, ok := t.c.next()
		if !ok {
			return b.String(), false
		}
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case '>':
			if depth <= 0 {
				return strings.TrimRight(b.String(), " \t\r\n"), true
			}
		}
		b.WriteRune(r)
	}
}

func parseDoctypeIDs(body string, dt *markup.Doctype) {
	rest := strings.TrimLeft(body, " \t\r\n")
	switch {
	case strings.HasPrefix(rest, "PUBLIC"):
		rest = strings.TrimLeft(rest[len("PUBLIC"):], " \t\r\n")
		pub, rest2, ok := readQuoted(rest)
		if !ok {
			dt.ForceQuirks = true
			return
		}
		dt.PublicID = &pub
		rest2 = strings.TrimLeft(rest2, " \t\r\n")
		if sys, _, ok := readQuoted(rest2); ok {
			dt.SystemID = &sys
		}
		dt.ForceQuirks = isForceQuirksPublic(pub)
	case strings.HasPrefix(rest, "SYSTEM"):
		rest = strings.TrimLeft(rest[len("SYSTEM"):], " \t\r\n")
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

// isForceQuirksPublic matches the handful of legacy public identifiers the
// HTML specification's quirks table flags, reduced to the prefixes that
// actually occur in the wild.
func isForceQuirksPublic(pub string) bool {
	lower := strings.ToLower(pub)
	for _, prefix := range []string{
		"-//w3c//dtd html 4.0 frameset//",
		"-//w3c//dtd html 4.0 transitional//",
		"-//w3c//dtd html 3.2",
		"-//ietf//dtd html",
		"-//w3o//dtd w3 html strict",
	} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
