package xml

import (
	"strings"

	"github.com/corvidlabs/markup/errs"
	markup "github.com/corvidlabs/markup/core"
	"github.com/corvidlabs/markup/stream"
)

// openEl is one entry of the tree constructor's open-element stack.
type openEl struct {
	name markup.Name
}

// nsScope is one entry of the namespace-binding stack, pushed on every
// StartElement and popped on the matching EndElement.
type nsScope struct {
	prefixes map[string]string // prefix -> URI, "" key is the default namespace
}

// treeState is the small state machine of spec §4.D.
type treeState int

const (
	stProlog treeState = iota
	stPostProlog
	stInElement
	stEpilog
)

type constructor struct {
	toks   *stream.Stream[token]
	opts   markup.Options
	report func(markup.Location, error)

	state    treeState
	stack    []openEl
	nsStack  []nsScope
	rootSeen bool
	fragment bool

	out []markup.Located

	textBuf strings.Builder
	textLoc markup.Location
	hasText bool

	lastLoc markup.Location
	done    bool
	out2    *stream.Stream[markup.Located]
}

// Parse drives the XML tokenizer and tree constructor over src, returning
// a stream of located signals per spec §3-4.
func Parse(src *stream.Stream[rune], opts markup.Options) *stream.Stream[markup.Located] {
	c := &constructor{opts: opts, fragment: opts.Context.IsFragment()}
	c.report = func(loc markup.Location, err error) { opts.report(loc, err) }
	c.toks = tokens(src, c.report, opts.Entity)
	c.out2 = stream.New(c.next)
	return c.out2
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
		func() {
			defer func() {
				if r := recover(); r != nil {
					if err, ok := r.(error); ok {
						c.out2.SetFail(err)
					}
					panic(r)
				}
			}()
			c.step()
		}()
	}
}

// step consumes exactly one token (or drains at end-of-input), appending
// zero or more signals to c.out.
func (c *constructor) step() {
	tok, ok := c.toks.Next()
	if !ok {
		c.flushText()
		c.closeRemaining()
		c.done = true
		return
	}
	c.lastLoc = tok.loc
	switch tok.kind {
	case tokText:
		c.appendText(tok.loc, tok.text)
	case tokComment:
		c.flushText()
		c.out = append(c.out, markup.Located{Loc: tok.loc, Sig: markup.Comment{Body: tok.text}})
	case tokPI:
		c.flushText()
		c.out = append(c.out, markup.Located{Loc: tok.loc, Sig: markup.ProcessingInstruction{Target: tok.name, Body: tok.text}})
	case tokCDATA:
		c.appendText(tok.loc, tok.text)
	case tokXMLDecl:
		c.flushText()
		if c.state != stProlog || c.rootSeen {
			c.report(tok.loc, errs.BadDocument("XML declaration must be the first signal"))
			return
		}
		c.out = append(c.out, markup.Located{Loc: tok.loc, Sig: tok.decl})
	case tokDoctype:
		c.flushText()
		if c.state != stProlog {
			c.report(tok.loc, errs.BadDocument("doctype must precede the root element"))
		}
		c.state = stPostProlog
		c.out = append(c.out, markup.Located{Loc: tok.loc, Sig: tok.dt})
	case tokOtherDecl:
		// internal-subset-only declarations outside DOCTYPE: no signal.
	case tokStartTag:
		c.flushText()
		c.startElement(tok)
	case tokEmptyTag:
		c.flushText()
		c.startElement(tok)
		c.popTo(len(c.stack)-1, tok.loc)
		if !c.fragment && len(c.stack) == 0 {
			c.state = stEpilog
		}
	case tokEndTag:
		c.flushText()
		c.endElement(tok)
	}
}

func (c *constructor) appendText(loc markup.Location, s string) {
	if s == "" {
		return
	}
	if !c.fragment && c.state != stInElement {
		if strings.TrimSpace(s) != "" {
			c.report(loc, errs.BadDocument("character data not allowed outside the root element"))
		}
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
	c.out = append(c.out, markup.Located{Loc: c.textLoc, Sig: markup.Text{Chunks: splitText(s)}})
}

// splitText obeys the "Text never carries an empty logical string" and
// "may be split purely to bound string length" invariants of spec §3; Go
// has no fixed platform string-length ceiling worth honoring here, so this
// always returns a single chunk.
func splitText(s string) []string {
	return []string{s}
}

func (c *constructor) startElement(tok token) {
	if !c.fragment {
		if c.rootSeen && c.state != stInElement {
			c.report(tok.loc, errs.BadDocument("multiple root elements"))
		}
		c.rootSeen = true
	}
	c.state = stInElement

	name, attrs, scope := c.resolveNames(tok)
	c.nsStack = append(c.nsStack, scope)
	c.stack = append(c.stack, openEl{name: name})
	c.out = append(c.out, markup.Located{Loc: tok.loc, Sig: markup.StartElement{Name: name, Attr: attrs}})
}

// resolveNames parses the element and attribute QNames, applies xmlns /
// xmlns:prefix declarations found among tok.attrs to a fresh scope layered
// on top of the current namespace stack, and resolves every prefix per
// spec §4.D.
func (c *constructor) resolveNames(tok token) (markup.Name, []markup.Attribute, nsScope) {
	scope := nsScope{prefixes: map[string]string{}}

	var nonNS []rawAttr
	for _, a := range tok.attrs {
		switch {
		case a.name == "xmlns":
			scope.prefixes[""] = a.value
		case strings.HasPrefix(a.name, "xmlns:"):
			scope.prefixes[a.name[len("xmlns:"):]] = a.value
		default:
			nonNS = append(nonNS, a)
		}
	}

	elemPrefix, elemLocal := splitQName(tok.name)
	elemURI := c.lookupNS(elemPrefix, scope, tok.loc, elemPrefix != "")
	elemName := markup.Name{Space: elemURI, Local: elemLocal}

	attrs := make([]markup.Attribute, 0, len(nonNS))
	for _, a := range nonNS {
		prefix, local := splitQName(a.name)
		var uri string
		if prefix != "" {
			uri = c.lookupNS(prefix, scope, tok.loc, true)
		}
		attrs = append(attrs, markup.Attribute{Name: markup.Name{Space: uri, Local: local}, Value: a.value})
	}

	return elemName, attrs, scope
}

func splitQName(qn string) (prefix, local string) {
	if i := strings.IndexByte(qn, ':'); i >= 0 {
		return qn[:i], qn[i+1:]
	}
	return "", qn
}

// lookupNS resolves prefix against scope and the namespace stack beneath
// it. required distinguishes "this is an explicit prefix" (must resolve or
// report BadNamespace) from "this is the element's default namespace"
// (silently empty when unbound, per XML's null-namespace-by-default rule).
func (c *constructor) lookupNS(prefix string, scope nsScope, loc markup.Location, required bool) string {
	if uri, ok := scope.prefixes[prefix]; ok {
		return uri
	}
	for i := len(c.nsStack) - 1; i >= 0; i-- {
		if uri, ok := c.nsStack[i].prefixes[prefix]; ok {
			return uri
		}
	}
	if prefix == "" {
		return ""
	}
	if c.opts.Namespace != nil {
		if uri, ok := c.opts.Namespace(prefix); ok {
			return uri
		}
	}
	if required {
		c.report(loc, errs.BadNamespace(prefix))
	}
	return ""
}

func (c *constructor) endElement(tok token) {
	prefix, local := splitQName(tok.name)
	uri := c.lookupNS(prefix, nsScope{}, tok.loc, prefix != "")
	name := markup.Name{Space: uri, Local: local}
	depth := -1
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].name == name {
			depth = i
			break
		}
	}
	if depth < 0 {
		err := errs.UnmatchedEndTag(tok.name)
		c.report(tok.loc, err)
		if c.opts.StrictEndTags {
			panic(err)
		}
		return
	}
	if depth != len(c.stack)-1 {
		c.report(tok.loc, errs.UnmatchedStartTag(c.stack[len(c.stack)-1].name.Local))
	}
	c.popTo(depth, tok.loc)
	if !c.fragment && len(c.stack) == 0 {
		c.state = stEpilog
	}
}

// popTo pops the stack down to and including index depth, emitting a
// balanced EndElement for each popped entry (spec §3 invariant 1).
func (c *constructor) popTo(depth int, loc markup.Location) {
	for len(c.stack) > depth {
		top := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		c.nsStack = c.nsStack[:len(c.nsStack)-1]
		c.out = append(c.out, markup.Located{Loc: loc, Sig: markup.EndElement{Name: top.name}})
	}
}

// closeRemaining implements end-of-input recovery: any still-open elements
// are closed with balanced EndElement signals (spec §3 invariant 1) and an
// UnexpectedEoi is reported if any were left open.
func (c *constructor) closeRemaining() {
	if len(c.stack) > 0 {
		c.report(c.lastLoc, errs.UnexpectedEOI("document"))
	}
	c.popTo(0, c.lastLoc)
}
