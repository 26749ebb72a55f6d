package html

import (
	"strings"

	"github.com/corvidlabs/markup/errs"
	markup "github.com/corvidlabs/markup/core"
	"github.com/corvidlabs/markup/stream"
)

type insertionMode int

const (
	modeInitial insertionMode = iota
	modeBeforeHTML
	modeBeforeHead
	modeInHead
	modeInHeadNoscript
	modeAfterHead
	modeInBody
	modeText
	modeInTable
	modeInTableText
	modeInCaption
	modeInColumnGroup
	modeInTableBody
	modeInRow
	modeInCell
	modeInSelect
	modeInSelectInTable
	modeInTemplate
	modeAfterBody
	modeInFrameset
	modeAfterFrameset
	modeAfterAfterBody
	modeAfterAfterFrameset
)

// openEl is one entry of the stack of open elements.
type openEl struct {
	name         markup.Name
	tag          string // lower-cased local name, for HTML content-model checks
	encodingAttr string
	id           int // matches the afEntry.id of the list-of-active-formatting-elements entry that created this element, 0 if none
}

func (e openEl) isHTML() bool { return e.name.Space == htmlNS }

// afEntry is one entry of the list of active formatting elements: either a
// real element (with the start tag that created it, for cloning) or a
// scope marker.
type afEntry struct {
	marker bool
	id     int
	name   markup.Name
	tag    string
	attrs  []markup.Attribute
}

type constructor struct {
	toks *stream.Stream[token]
	tok  *tokenizer
	opts markup.Options
	report func(markup.Location, error)

	mode         insertionMode
	originalMode insertionMode

	stack []openEl
	afe   []afEntry

	fragment     bool
	fragmentTag  string
	framesetOK   bool
	formOpen     bool
	fosterParent bool
	scripting    bool
	done         bool

	pendingTableText strings.Builder
	pendingTableLoc  markup.Location
	nextID           int

	out  []markup.Located
	out2 *stream.Stream[markup.Located]

	textBuf strings.Builder
	textLoc markup.Location
	hasText bool

	lastLoc markup.Location
}

// Parse drives the HTML tokenizer and the insertion-mode tree constructor
// over src, returning a stream of located signals per spec §3-4.
func Parse(src *stream.Stream[rune], opts markup.Options) *stream.Stream[markup.Located] {
	c := &constructor{opts: opts, framesetOK: true}
	c.report = func(loc markup.Location, err error) { opts.report(loc, err) }
	c.toks, c.tok = tokens(src, c.report)

	ctx := opts.Context
	if ctx.IsAuto() {
		first, ok := c.firstSignificantToken()
		if ok {
			ctx = detectContext(first)
		} else {
			ctx = markup.Document
		}
	}
	if ctx.IsFragment() {
		c.fragment = true
		c.fragmentTag = ctx.FragmentName
		c.stack = append(c.stack, openEl{name: markup.Name{Space: htmlNS, Local: "html"}, tag: "html"})
		c.mode = fragmentInsertionMode(c.fragmentTag)
		c.originalMode = modeInBody
		if ns := fragmentNamespace(c.fragmentTag); ns != htmlNS {
			c.stack = append(c.stack, openEl{name: markup.Name{Space: ns, Local: c.fragmentTag}, tag: c.fragmentTag})
		}
		if c.mode == modeText {
			if rawTextElements[c.fragmentTag] {
				c.tok.setRawText(c.fragmentTag)
			} else {
				c.tok.setRCData(c.fragmentTag)
			}
		}
	}

	c.out2 = stream.New(c.next)
	return c.out2
}

// firstSignificantToken peeks tokens until it finds the first
// non-whitespace-text, non-comment token, per spec §4.F.6. Every peeked
// token (including the returned one) is restored in front of c.toks so
// normal processing sees all of them again; the underlying stream only
// supports a single pushed-back item, so restoration rebuilds c.toks as a
// small buffer followed by the original rather than calling Push in a loop.
func (c *constructor) firstSignificantToken() (token, bool) {
	var buffered []token
	var result token
	found := false
	for {
		tok, ok := c.toks.Next()
		if !ok {
			break
		}
		buffered = append(buffered, tok)
		if tok.kind == tokComment {
			continue
		}
		if tok.kind == tokText && strings.TrimSpace(tok.text) == "" {
			continue
		}
		result, found = tok, true
		break
	}
	rest := c.toks
	i := 0
	c.toks = stream.New(func() (token, bool) {
		if i < len(buffered) {
			t := buffered[i]
			i++
			return t, true
		}
		return rest.Next()
	})
	return result, found
}

func (c *constructor) next() (markup.Located, bool) {
	for {
		if len(c.out) > 0 {
			v := c.out[0]
			c.out = c.out[1:]
			return v, true
		}
		if c.done {
			return markup.Located{}, false
		}
		c.step()
	}
}

func (c *constructor) step() {
	tok, ok := c.toks.Next()
	if !ok {
		c.flushText()
		c.eof()
		c.done = true
		return
	}
	c.lastLoc = tok.loc
	if c.inForeignContent() {
		c.dispatchForeign(tok)
		return
	}
	c.dispatch(tok)
}

// inForeignContent reports whether the current node (top of stack) is a
// foreign (SVG/MathML) element, per spec §4.F.4. Only the namespace is
// checked: an HTML or MathML-text integration point on top of the stack
// still counts as foreign content here.
func (c *constructor) inForeignContent() bool {
	if len(c.stack) == 0 {
		return false
	}
	top := c.stack[len(c.stack)-1]
	return top.name.Space == svgNS || top.name.Space == mathNS
}

func (c *constructor) current() openEl {
	return c.stack[len(c.stack)-1]
}

func (c *constructor) emit(loc markup.Location, sig markup.Signal) {
	c.out = append(c.out, markup.Located{Loc: loc, Sig: sig})
}

func (c *constructor) appendText(loc markup.Location, s string) {
	if s == "" {
		return
	}
	if !c.hasText {
		c.textLoc = loc
		c.hasText = true
	}
	c.textBuf.WriteString(s)
}

func (c *constructor) flushText() {
	if !c.hasText {
		return
	}
	s := c.textBuf.String()
	c.textBuf.Reset()
	c.hasText = false
	if s == "" {
		return
	}
	c.emit(c.textLoc, markup.Text{Chunks: []string{s}})
}

// pushElement pushes an open element and emits its StartElement signal.
func (c *constructor) pushElement(loc markup.Location, name markup.Name, tag string, attrs []markup.Attribute, encodingAttr string) {
	c.stack = append(c.stack, openEl{name: name, tag: tag, encodingAttr: encodingAttr})
	c.emit(loc, markup.StartElement{Name: name, Attr: attrs})
}

// pushElementID is pushElement plus assignment of a fresh id shared with
// the caller's list-of-active-formatting-elements entry, so later afe
// bookkeeping (reconstruction, adoption agency) can tell which stack
// entry a given afe entry currently corresponds to.
func (c *constructor) pushElementID(loc markup.Location, name markup.Name, tag string, attrs []markup.Attribute) int {
	c.nextID++
	id := c.nextID
	c.stack = append(c.stack, openEl{name: name, tag: tag, id: id})
	c.emit(loc, markup.StartElement{Name: name, Attr: attrs})
	return id
}

// popElement pops the current node and emits a balanced EndElement (spec
// §3 invariant 1).
func (c *constructor) popElement(loc markup.Location) {
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.emit(loc, markup.EndElement{Name: top.name})
}

// popUntilInclusive pops the stack down to and including the entry with
// the given tag name (the closest such entry to the top), emitting a
// balanced EndElement per pop.
func (c *constructor) popUntilInclusive(loc markup.Location, tag string) {
	for len(c.stack) > 0 {
		isMatch := c.stack[len(c.stack)-1].tag == tag
		c.popElement(loc)
		if isMatch {
			return
		}
	}
}

// popUntilOneOf pops while the current node's tag is not in tags,
// stopping without popping the matching element.
func (c *constructor) popUntilOneOf(loc markup.Location, tags ...string) {
	for len(c.stack) > 0 {
		if contains(tags, c.current().tag) {
			return
		}
		c.popElement(loc)
	}
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// hasInScope implements the specification's generic "has an element in
// scope" with a caller-supplied set of scope-boundary tags.
func (c *constructor) hasInScope(tag string, boundary map[string]bool) bool {
	for i := len(c.stack) - 1; i >= 0; i-- {
		el := c.stack[i]
		if el.isHTML() && el.tag == tag {
			return true
		}
		if el.isHTML() && boundary[el.tag] {
			return false
		}
	}
	return false
}

var defaultScopeBoundary = map[string]bool{
	"applet": true, "caption": true, "html": true, "table": true, "td": true,
	"th": true, "marquee": true, "object": true, "template": true,
}

var listItemScopeBoundary = union(defaultScopeBoundary, map[string]bool{"ol": true, "ul": true})
var buttonScopeBoundary = union(defaultScopeBoundary, map[string]bool{"button": true})
var tableScopeBoundary = map[string]bool{"html": true, "table": true, "template": true}

func union(a, b map[string]bool) map[string]bool {
	out := map[string]bool{}
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

func (c *constructor) hasInButtonScope(tag string) bool { return c.hasInScope(tag, buttonScopeBoundary) }
func (c *constructor) hasInListItemScope(tag string) bool {
	return c.hasInScope(tag, listItemScopeBoundary)
}
func (c *constructor) hasInTableScope(tag string) bool { return c.hasInScope(tag, tableScopeBoundary) }

// hasInSelectScope implements the specification's inverted scope rule for
// <select>: every HTML element except optgroup/option is a scope boundary.
func (c *constructor) hasInSelectScope(tag string) bool {
	for i := len(c.stack) - 1; i >= 0; i-- {
		el := c.stack[i]
		if el.isHTML() && el.tag == tag {
			return true
		}
		if el.isHTML() && el.tag != "optgroup" && el.tag != "option" {
			return false
		}
	}
	return false
}

// generateImpliedEndTags pops elements in impliedEndTagElements (optionally
// excluding except) until the current node is not one of them.
func (c *constructor) generateImpliedEndTags(loc markup.Location, except string) {
	for len(c.stack) > 0 {
		tag := c.current().tag
		if tag == except || !impliedEndTagElements[tag] {
			return
		}
		c.popElement(loc)
	}
}

// closeP implements the common "if an element in button scope, close a p
// element" step used before inserting many block elements.
func (c *constructor) closeP(loc markup.Location) {
	if c.hasInButtonScope("p") {
		c.generateImpliedEndTags(loc, "p")
		if c.current().tag == "p" {
			c.popElement(loc)
		} else {
			c.popUntilInclusive(loc, "p")
		}
	}
}

// eof implements spec §4.F.8: pop whatever remains, reporting if anything
// other than the implicit html/head/body shell was left open. In a
// fragment parse the synthetic entries Parse put at the bottom of the
// stack never had a StartElement, so they are dropped without an
// EndElement.
func (c *constructor) eof() {
	base := 0
	if c.fragment {
		base = 1
		if fragmentNamespace(c.fragmentTag) != htmlNS {
			base = 2
		}
	}
	for i := base; i < len(c.stack); i++ {
		if tag := c.stack[i].tag; tag != "html" && tag != "head" && tag != "body" {
			c.report(c.lastLoc, errs.UnexpectedEOI("document"))
			break
		}
	}
	for len(c.stack) > base {
		c.popElement(c.lastLoc)
	}
	c.stack = c.stack[:0]
}

func qname(ns, local string) markup.Name { return markup.Name{Space: ns, Local: local} }

func convertAttrs(ns string, raw []attr) []markup.Attribute {
	out := make([]markup.Attribute, 0, len(raw))
	for _, a := range raw {
		out = append(out, markup.Attribute{Name: markup.Name{Space: "", Local: a.name}, Value: a.value})
	}
	_ = ns
	return out
}

func encodingAttrOf(raw []attr) string {
	for _, a := range raw {
		if a.name == "encoding" {
			return a.value
		}
	}
	return ""
}
