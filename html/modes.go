package html

import (
	"strings"

	"github.com/corvidlabs/markup/errs"
	markup "github.com/corvidlabs/markup/core"
)

func (c *constructor) reprocess(tok token) { c.toks.Push(tok) }

func isWhitespaceText(tok token) bool {
	return tok.kind == tokText && strings.TrimSpace(tok.text) == ""
}

// insertVoid pushes and immediately pops a void element (spec §4.H list),
// emitting a balanced StartElement/EndElement pair.
func (c *constructor) insertVoid(tok token, ns string) {
	attrs := convertAttrs(ns, tok.attrs)
	c.pushElement(tok.loc, qname(ns, tok.name), tok.name, attrs, "")
	c.popElement(tok.loc)
}

func (c *constructor) insertHTMLElement(tok token) {
	attrs := convertAttrs(htmlNS, tok.attrs)
	c.pushElement(tok.loc, qname(htmlNS, tok.name), tok.name, attrs, encodingAttrOf(tok.attrs))
}

func (c *constructor) dispatch(tok token) {
	switch c.mode {
	case modeInitial:
		c.inInitial(tok)
	case modeBeforeHTML:
		c.inBeforeHTML(tok)
	case modeBeforeHead:
		c.inBeforeHead(tok)
	case modeInHead:
		c.inHead(tok)
	case modeInHeadNoscript:
		c.inHeadNoscript(tok)
	case modeAfterHead:
		c.inAfterHead(tok)
	case modeInBody:
		c.inBody(tok)
	case modeText:
		c.inText(tok)
	case modeInTable:
		c.inTable(tok)
	case modeInTableText:
		c.inTableText(tok)
	case modeInCaption:
		c.inCaption(tok)
	case modeInColumnGroup:
		c.inColumnGroup(tok)
	case modeInTableBody:
		c.inTableBody(tok)
	case modeInRow:
		c.inRow(tok)
	case modeInCell:
		c.inCell(tok)
	case modeInSelect, modeInSelectInTable:
		c.inSelect(tok)
	case modeInTemplate:
		c.inBody(tok)
	case modeAfterBody:
		c.inAfterBody(tok)
	case modeInFrameset:
		c.inFrameset(tok)
	case modeAfterFrameset:
		c.inAfterFrameset(tok)
	case modeAfterAfterBody:
		c.inAfterAfterBody(tok)
	case modeAfterAfterFrameset:
		c.inAfterAfterBody(tok)
	}
}

func (c *constructor) inInitial(tok token) {
	switch {
	case isWhitespaceText(tok):
		return
	case tok.kind == tokComment:
		c.emit(tok.loc, markup.Comment{Body: tok.text})
	case tok.kind == tokDoctype:
		c.emit(tok.loc, tok.dt)
		c.mode = modeBeforeHTML
	default:
		c.mode = modeBeforeHTML
		c.reprocess(tok)
	}
}

func (c *constructor) inBeforeHTML(tok token) {
	switch {
	case tok.kind == tokDoctype:
		c.report(tok.loc, errs.BadDocument("doctype must precede everything but comments/whitespace"))
	case isWhitespaceText(tok):
	case tok.kind == tokComment:
		c.emit(tok.loc, markup.Comment{Body: tok.text})
	case tok.kind == tokStartTag && tok.name == "html":
		c.insertHTMLElement(tok)
		c.mode = modeBeforeHead
	case tok.kind == tokEndTag && !contains([]string{"head", "body", "html", "br"}, tok.name):
		c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
	default:
		attrs := []markup.Attribute(nil)
		c.pushElement(tok.loc, qname(htmlNS, "html"), "html", attrs, "")
		c.mode = modeBeforeHead
		c.reprocess(tok)
	}
}

func (c *constructor) inBeforeHead(tok token) {
	switch {
	case isWhitespaceText(tok):
	case tok.kind == tokComment:
		c.emit(tok.loc, markup.Comment{Body: tok.text})
	case tok.kind == tokDoctype:
		c.report(tok.loc, errs.BadDocument("doctype not allowed here"))
	case tok.kind == tokStartTag && tok.name == "html":
	case tok.kind == tokStartTag && tok.name == "head":
		c.insertHTMLElement(tok)
		c.mode = modeInHead
	case tok.kind == tokEndTag && !contains([]string{"head", "body", "html", "br"}, tok.name):
		c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
	default:
		c.pushElement(tok.loc, qname(htmlNS, "head"), "head", nil, "")
		c.mode = modeInHead
		c.reprocess(tok)
	}
}

var headVoidTags = map[string]bool{"base": true, "basefont": true, "bgsound": true, "link": true, "meta": true}

func (c *constructor) inHead(tok token) {
	switch {
	case isWhitespaceText(tok):
		c.appendText(tok.loc, tok.text)
	case tok.kind == tokComment:
		c.flushText()
		c.emit(tok.loc, markup.Comment{Body: tok.text})
	case tok.kind == tokDoctype:
		c.report(tok.loc, errs.BadDocument("doctype not allowed here"))
	case tok.kind == tokStartTag && tok.name == "html":
	case tok.kind == tokStartTag && headVoidTags[tok.name]:
		c.flushText()
		c.insertVoid(tok, htmlNS)
	case tok.kind == tokStartTag && tok.name == "title":
		c.flushText()
		c.insertHTMLElement(tok)
		c.tok.setRCData("title")
		c.originalMode, c.mode = modeInHead, modeText
	case tok.kind == tokStartTag && tok.name == "noscript":
		c.flushText()
		c.insertHTMLElement(tok)
		c.mode = modeInHeadNoscript
	case tok.kind == tokStartTag && (tok.name == "noframes" || tok.name == "style"):
		c.flushText()
		c.insertHTMLElement(tok)
		c.tok.setRawText(tok.name)
		c.originalMode, c.mode = modeInHead, modeText
	case tok.kind == tokStartTag && tok.name == "script":
		c.flushText()
		c.insertHTMLElement(tok)
		c.tok.setRawText("script")
		c.originalMode, c.mode = modeInHead, modeText
	case tok.kind == tokStartTag && tok.name == "template":
		c.flushText()
		c.insertHTMLElement(tok)
		c.pushFormattingMarker()
	case tok.kind == tokEndTag && tok.name == "template":
		c.flushText()
		if c.hasInScope("template", tableScopeBoundary) {
			c.generateImpliedEndTags(tok.loc, "")
			c.popUntilInclusive(tok.loc, "template")
			c.clearActiveFormattingUpToMarker()
		}
	case tok.kind == tokEndTag && tok.name == "head":
		c.flushText()
		c.popElement(tok.loc)
		c.mode = modeAfterHead
	case tok.kind == tokEndTag && contains([]string{"body", "html", "br"}, tok.name):
		c.flushText()
		c.popElement(tok.loc)
		c.mode = modeAfterHead
		c.reprocess(tok)
	case tok.kind == tokStartTag && tok.name == "head":
		c.report(tok.loc, errs.BadToken("head", "in-head", "unexpected nested head"))
	default:
		c.flushText()
		c.popElement(tok.loc)
		c.mode = modeAfterHead
		c.reprocess(tok)
	}
}

func (c *constructor) inHeadNoscript(tok token) {
	switch {
	case tok.kind == tokDoctype:
	case tok.kind == tokStartTag && tok.name == "html":
	case tok.kind == tokEndTag && tok.name == "noscript":
		c.popElement(tok.loc)
		c.mode = modeInHead
	case isWhitespaceText(tok) || tok.kind == tokComment:
		c.inHead(tok)
	case tok.kind == tokStartTag && contains([]string{"basefont", "bgsound", "link", "meta", "noframes", "style"}, tok.name):
		c.inHead(tok)
	case tok.kind == tokEndTag && tok.name == "br":
		c.popElement(tok.loc)
		c.mode = modeInHead
		c.reprocess(tok)
	default:
		c.report(tok.loc, errs.BadContent("head"))
		c.popElement(tok.loc)
		c.mode = modeInHead
		c.reprocess(tok)
	}
}

func (c *constructor) inAfterHead(tok token) {
	switch {
	case isWhitespaceText(tok):
		c.appendText(tok.loc, tok.text)
	case tok.kind == tokComment:
		c.flushText()
		c.emit(tok.loc, markup.Comment{Body: tok.text})
	case tok.kind == tokDoctype:
	case tok.kind == tokStartTag && tok.name == "html":
	case tok.kind == tokStartTag && tok.name == "body":
		c.flushText()
		c.insertHTMLElement(tok)
		c.framesetOK = false
		c.mode = modeInBody
	case tok.kind == tokStartTag && tok.name == "frameset":
		c.flushText()
		c.insertHTMLElement(tok)
		c.mode = modeInFrameset
	case tok.kind == tokStartTag && contains([]string{"base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title"}, tok.name):
		c.report(tok.loc, errs.BadContent("after-head"))
		c.flushText()
		c.inHead(tok)
	case tok.kind == tokEndTag && tok.name == "template":
		c.inHead(tok)
	case tok.kind == tokEndTag && contains([]string{"body", "html", "br"}, tok.name):
		c.flushText()
		c.pushElement(tok.loc, qname(htmlNS, "body"), "body", nil, "")
		c.mode = modeInBody
		c.reprocess(tok)
	default:
		c.flushText()
		c.pushElement(tok.loc, qname(htmlNS, "body"), "body", nil, "")
		c.mode = modeInBody
		c.reprocess(tok)
	}
}
