package html

import (
	"strings"

	"github.com/corvidlabs/markup/errs"
	markup "github.com/corvidlabs/markup/core"
)

var headLikeInBody = map[string]bool{
	"base": true, "basefont": true, "bgsound": true, "link": true, "meta": true,
	"noframes": true, "script": true, "style": true, "template": true, "title": true,
}

var blockStarters = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"center": true, "details": true, "dialog": true, "dir": true, "div": true,
	"dl": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "header": true, "hgroup": true, "main": true, "menu": true,
	"nav": true, "ol": true, "p": true, "section": true, "summary": true, "ul": true,
}

var headings = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}

var voidTagsInBody = map[string]bool{"area": true, "br": true, "embed": true, "img": true, "keygen": true, "wbr": true}

func (c *constructor) inBody(tok token) {
	switch {
	case tok.kind == tokText:
		if tok.text == "" {
			return
		}
		if strings.TrimSpace(tok.text) != "" {
			c.framesetOK = false
		}
		c.reconstructActiveFormattingElements(tok.loc)
		c.appendText(tok.loc, tok.text)

	case tok.kind == tokComment:
		c.flushText()
		c.emit(tok.loc, markup.Comment{Body: tok.text})

	case tok.kind == tokDoctype:
		c.report(tok.loc, errs.BadDocument("doctype not allowed here"))

	case tok.kind == tokStartTag && tok.name == "html":
		c.report(tok.loc, errs.BadToken("html", "in-body", "unexpected nested html"))

	case tok.kind == tokStartTag && headLikeInBody[tok.name]:
		c.flushText()
		c.inHead(tok)

	case tok.kind == tokEndTag && tok.name == "template":
		c.flushText()
		c.inHead(tok)

	case tok.kind == tokStartTag && tok.name == "body":
		c.report(tok.loc, errs.BadToken("body", "in-body", "unexpected nested body"))

	case tok.kind == tokStartTag && tok.name == "frameset":
		c.report(tok.loc, errs.BadToken("frameset", "in-body", "unexpected frameset"))

	case tok.kind == tokEndTag && tok.name == "body":
		c.flushText()
		if !c.hasInScope("body", defaultScopeBoundary) {
			c.report(tok.loc, errs.UnmatchedEndTag("body"))
			return
		}
		c.mode = modeAfterBody

	case tok.kind == tokEndTag && tok.name == "html":
		c.flushText()
		if !c.hasInScope("body", defaultScopeBoundary) {
			c.report(tok.loc, errs.UnmatchedEndTag("html"))
			return
		}
		c.mode = modeAfterBody
		c.reprocess(tok)

	case tok.kind == tokStartTag && blockStarters[tok.name]:
		c.flushText()
		c.closeP(tok.loc)
		c.insertHTMLElement(tok)

	case tok.kind == tokStartTag && headings[tok.name]:
		c.flushText()
		c.closeP(tok.loc)
		if headings[c.current().tag] {
			c.popElement(tok.loc)
		}
		c.insertHTMLElement(tok)

	case tok.kind == tokStartTag && (tok.name == "pre" || tok.name == "listing"):
		c.flushText()
		c.closeP(tok.loc)
		c.insertHTMLElement(tok)
		c.framesetOK = false

	case tok.kind == tokStartTag && tok.name == "form":
		c.flushText()
		if c.formOpen && !c.hasInScope("template", tableScopeBoundary) {
			c.report(tok.loc, errs.BadToken("form", "in-body", "nested form"))
			return
		}
		c.closeP(tok.loc)
		c.insertHTMLElement(tok)
		if !c.hasInScope("template", tableScopeBoundary) {
			c.formOpen = true
		}

	case tok.kind == tokStartTag && tok.name == "li":
		c.flushText()
		c.closeListItem(tok.loc, "li")
		c.closeP(tok.loc)
		c.insertHTMLElement(tok)

	case tok.kind == tokStartTag && (tok.name == "dd" || tok.name == "dt"):
		c.flushText()
		c.closeListItem(tok.loc, tok.name)
		c.closeP(tok.loc)
		c.insertHTMLElement(tok)

	case tok.kind == tokStartTag && tok.name == "plaintext":
		c.flushText()
		c.closeP(tok.loc)
		c.insertHTMLElement(tok)
		c.tok.setPlaintext()

	case tok.kind == tokStartTag && tok.name == "button":
		c.flushText()
		if c.hasInButtonScope("button") {
			c.generateImpliedEndTags(tok.loc, "")
			c.popUntilInclusive(tok.loc, "button")
		}
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertHTMLElement(tok)
		c.framesetOK = false

	case tok.kind == tokStartTag && tok.name == "a":
		c.flushText()
		if idx := c.findAFE("a"); idx >= 0 {
			c.adoptionAgency(tok.loc, "a")
		}
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertFormattingElement(tok.loc, qname(htmlNS, "a"), "a", convertAttrs(htmlNS, tok.attrs))

	case tok.kind == tokStartTag && formattingElements[tok.name] && tok.name != "a" && tok.name != "nobr":
		c.flushText()
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertFormattingElement(tok.loc, qname(htmlNS, tok.name), tok.name, convertAttrs(htmlNS, tok.attrs))

	case tok.kind == tokStartTag && tok.name == "nobr":
		c.flushText()
		c.reconstructActiveFormattingElements(tok.loc)
		if c.hasInScope("nobr", defaultScopeBoundary) {
			c.adoptionAgency(tok.loc, "nobr")
			c.reconstructActiveFormattingElements(tok.loc)
		}
		c.insertFormattingElement(tok.loc, qname(htmlNS, "nobr"), "nobr", convertAttrs(htmlNS, tok.attrs))

	case tok.kind == tokStartTag && contains([]string{"applet", "marquee", "object"}, tok.name):
		c.flushText()
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertHTMLElement(tok)
		c.pushFormattingMarker()
		c.framesetOK = false

	case tok.kind == tokEndTag && contains([]string{"applet", "marquee", "object"}, tok.name):
		c.flushText()
		if c.hasInScope(tok.name, defaultScopeBoundary) {
			c.generateImpliedEndTags(tok.loc, "")
			c.popUntilInclusive(tok.loc, tok.name)
			c.clearActiveFormattingUpToMarker()
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
		}

	case tok.kind == tokStartTag && tok.name == "table":
		c.flushText()
		c.closeP(tok.loc)
		c.insertHTMLElement(tok)
		c.framesetOK = false
		c.mode = modeInTable

	case tok.kind == tokStartTag && voidTagsInBody[tok.name]:
		c.flushText()
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertVoid(tok, htmlNS)
		c.framesetOK = false

	case tok.kind == tokStartTag && tok.name == "input":
		c.flushText()
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertVoid(tok, htmlNS)
		if v, _ := tok.attr("type"); !strings.EqualFold(v, "hidden") {
			c.framesetOK = false
		}

	case tok.kind == tokStartTag && contains([]string{"param", "source", "track"}, tok.name):
		c.flushText()
		c.insertVoid(tok, htmlNS)

	case tok.kind == tokStartTag && tok.name == "hr":
		c.flushText()
		c.closeP(tok.loc)
		c.insertVoid(tok, htmlNS)
		c.framesetOK = false

	case tok.kind == tokStartTag && tok.name == "image":
		tok.name = "img"
		c.inBody(tok)

	case tok.kind == tokStartTag && tok.name == "textarea":
		c.flushText()
		c.insertHTMLElement(tok)
		c.tok.setRCData("textarea")
		c.framesetOK = false
		c.originalMode, c.mode = modeInBody, modeText

	case tok.kind == tokStartTag && tok.name == "xmp":
		c.flushText()
		c.closeP(tok.loc)
		c.reconstructActiveFormattingElements(tok.loc)
		c.framesetOK = false
		c.insertHTMLElement(tok)
		c.tok.setRawText("xmp")
		c.originalMode, c.mode = modeInBody, modeText

	case tok.kind == tokStartTag && (tok.name == "iframe" || tok.name == "noembed"):
		c.flushText()
		c.framesetOK = false
		c.insertHTMLElement(tok)
		c.tok.setRawText(tok.name)
		c.originalMode, c.mode = modeInBody, modeText

	case tok.kind == tokStartTag && tok.name == "select":
		c.flushText()
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertHTMLElement(tok)
		c.framesetOK = false
		if c.inTableContext() {
			c.mode = modeInSelectInTable
		} else {
			c.mode = modeInSelect
		}

	case tok.kind == tokStartTag && contains([]string{"optgroup", "option"}, tok.name):
		c.flushText()
		if c.current().tag == "option" {
			c.popElement(tok.loc)
		}
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertHTMLElement(tok)

	case tok.kind == tokStartTag && contains([]string{"rb", "rtc"}, tok.name):
		c.flushText()
		if c.hasInScope("ruby", defaultScopeBoundary) {
			c.generateImpliedEndTags(tok.loc, "")
		}
		c.insertHTMLElement(tok)

	case tok.kind == tokStartTag && contains([]string{"rp", "rt"}, tok.name):
		c.flushText()
		if c.hasInScope("ruby", defaultScopeBoundary) {
			c.generateImpliedEndTags(tok.loc, "rtc")
		}
		c.insertHTMLElement(tok)

	case tok.kind == tokStartTag && tok.name == "math":
		c.flushText()
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertForeignElement(tok, mathNS)

	case tok.kind == tokStartTag && tok.name == "svg":
		c.flushText()
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertForeignElement(tok, svgNS)

	case tok.kind == tokStartTag && contains([]string{"caption", "col", "colgroup", "frame", "head", "tbody", "td", "tfoot", "th", "thead", "tr"}, tok.name):
		c.report(tok.loc, errs.BadContent("body"))

	case tok.kind == tokStartTag:
		c.flushText()
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertHTMLElement(tok)
		if tok.selfClose && voidElements[tok.name] {
			c.popElement(tok.loc)
		}

	case tok.kind == tokEndTag && tok.name == "p":
		c.flushText()
		if !c.hasInButtonScope("p") {
			c.report(tok.loc, errs.UnmatchedEndTag("p"))
			c.insertHTMLElement(token{kind: tokStartTag, loc: tok.loc, name: "p"})
		}
		c.generateImpliedEndTags(tok.loc, "p")
		c.popUntilInclusive(tok.loc, "p")

	case tok.kind == tokEndTag && tok.name == "li":
		c.flushText()
		if c.hasInListItemScope("li") {
			c.generateImpliedEndTags(tok.loc, "li")
			c.popUntilInclusive(tok.loc, "li")
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag("li"))
		}

	case tok.kind == tokEndTag && (tok.name == "dd" || tok.name == "dt"):
		c.flushText()
		if c.hasInScope(tok.name, defaultScopeBoundary) {
			c.generateImpliedEndTags(tok.loc, tok.name)
			c.popUntilInclusive(tok.loc, tok.name)
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
		}

	case tok.kind == tokEndTag && headings[tok.name]:
		c.flushText()
		if c.hasAnyHeadingInScope() {
			c.generateImpliedEndTags(tok.loc, "")
			for len(c.stack) > 0 && !headings[c.current().tag] {
				c.popElement(tok.loc)
			}
			if len(c.stack) > 0 {
				c.popElement(tok.loc)
			}
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
		}

	case tok.kind == tokEndTag && tok.name == "form":
		c.flushText()
		if c.hasInScope("form", defaultScopeBoundary) {
			c.generateImpliedEndTags(tok.loc, "")
			c.popUntilInclusive(tok.loc, "form")
			c.formOpen = false
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag("form"))
		}

	case tok.kind == tokEndTag && blockStarters[tok.name]:
		c.flushText()
		if c.hasInScope(tok.name, defaultScopeBoundary) {
			c.generateImpliedEndTags(tok.loc, "")
			c.popUntilInclusive(tok.loc, tok.name)
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
		}

	case tok.kind == tokEndTag && formattingElements[tok.name]:
		c.flushText()
		c.adoptionAgency(tok.loc, tok.name)

	case tok.kind == tokEndTag && contains([]string{"applet", "marquee", "object"}, tok.name):
		c.flushText()
		if c.hasInScope(tok.name, defaultScopeBoundary) {
			c.generateImpliedEndTags(tok.loc, "")
			c.popUntilInclusive(tok.loc, tok.name)
			c.clearActiveFormattingUpToMarker()
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
		}

	case tok.kind == tokEndTag && tok.name == "br":
		c.flushText()
		c.reconstructActiveFormattingElements(tok.loc)
		c.insertVoid(token{kind: tokStartTag, loc: tok.loc, name: "br"}, htmlNS)

	case tok.kind == tokEndTag:
		c.flushText()
		c.anyOtherEndTag(tok.loc, tok.name)

	default:
		c.flushText()
	}
}

// closeListItem implements the specification's "close an li/dd/dt"
// algorithm that runs before inserting a new one: pop nodes until the
// matching kind is found and closed, stopping early at a non-formatting
// special boundary other than address/div/p.
func (c *constructor) closeListItem(loc markup.Location, kind string) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		tag := c.stack[i].tag
		if tag == kind {
			c.generateImpliedEndTags(loc, kind)
			c.popUntilInclusive(loc, kind)
			return
		}
		if specialElements[tag] && tag != "address" && tag != "div" && tag != "p" {
			return
		}
	}
}

func (c *constructor) hasAnyHeadingInScope() bool {
	for h := range headings {
		if c.hasInScope(h, defaultScopeBoundary) {
			return true
		}
	}
	return false
}

func (c *constructor) findAFE(tag string) int {
	for i := len(c.afe) - 1; i >= 0; i-- {
		if c.afe[i].marker {
			return -1
		}
		if c.afe[i].tag == tag {
			return i
		}
	}
	return -1
}

// inTableContext reports whether a table element is anywhere on the
// stack of open elements, the heuristic spec §4.F uses to choose
// in-select vs. in-select-in-table when a <select> is opened.
func (c *constructor) inTableContext() bool {
	for _, e := range c.stack {
		if e.tag == "table" {
			return true
		}
	}
	return false
}

// anyOtherEndTag implements the specification's generic end-tag fallback:
// walk down the stack; if the matching tag is found, generate implied end
// tags and pop to it; if a special element is found first, report and
// abandon the end tag.
func (c *constructor) anyOtherEndTag(loc markup.Location, tag string) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		node := c.stack[i]
		if node.tag == tag {
			c.generateImpliedEndTags(loc, tag)
			c.popUntilInclusive(loc, tag)
			return
		}
		if specialElements[node.tag] {
			c.report(loc, errs.UnmatchedEndTag(tag))
			return
		}
	}
}

// insertForeignElement pushes an SVG/MathML element with its tag-name case
// adjusted (SVG only) and its namespace set, per spec §4.F.4.
func (c *constructor) insertForeignElement(tok token, ns string) {
	tag := tok.name
	if ns == svgNS {
		tag = adjustSVGTagName(tag)
	}
	attrs := convertAttrs(ns, tok.attrs)
	c.stack = append(c.stack, openEl{name: qname(ns, tag), tag: tag, encodingAttr: encodingAttrOf(tok.attrs)})
	c.emit(tok.loc, markup.StartElement{Name: qname(ns, tag), Attr: attrs})
	if tok.selfClose {
		c.popElement(tok.loc)
	}
}
