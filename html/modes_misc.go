package html

import (
	"strings"

	"github.com/corvidlabs/markup/errs"
	markup "github.com/corvidlabs/markup/core"
)

func (c *constructor) inText(tok token) {
	switch {
	case tok.kind == tokText:
		c.appendText(tok.loc, tok.text)
	case tok.kind == tokEndTag:
		c.flushText()
		c.popElement(tok.loc)
		c.mode = c.originalMode
	default:
		c.flushText()
		c.popElement(tok.loc)
		c.mode = c.originalMode
		c.reprocess(tok)
	}
}

func (c *constructor) inSelect(tok token) {
	switch {
	case tok.kind == tokText:
		if strings.ContainsRune(tok.text, 0) {
			c.report(tok.loc, errs.BadToken("NUL", "select", "unexpected null"))
			return
		}
		c.appendText(tok.loc, tok.text)

	case tok.kind == tokComment:
		c.flushText()
		c.emit(tok.loc, markup.Comment{Body: tok.text})

	case tok.kind == tokDoctype:
		c.report(tok.loc, errs.BadDocument("doctype not allowed here"))

	case tok.kind == tokStartTag && tok.name == "html":
		c.inBody(tok)

	case tok.kind == tokStartTag && tok.name == "option":
		c.flushText()
		if c.current().tag == "option" {
			c.popElement(tok.loc)
		}
		c.insertHTMLElement(tok)

	case tok.kind == tokStartTag && tok.name == "optgroup":
		c.flushText()
		if c.current().tag == "option" {
			c.popElement(tok.loc)
		}
		if c.current().tag == "optgroup" {
			c.popElement(tok.loc)
		}
		c.insertHTMLElement(tok)

	case tok.kind == tokEndTag && tok.name == "optgroup":
		c.flushText()
		if c.current().tag == "option" && len(c.stack) > 1 && c.stack[len(c.stack)-2].tag == "optgroup" {
			c.popElement(tok.loc)
		}
		if c.current().tag == "optgroup" {
			c.popElement(tok.loc)
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag("optgroup"))
		}

	case tok.kind == tokEndTag && tok.name == "option":
		c.flushText()
		if c.current().tag == "option" {
			c.popElement(tok.loc)
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag("option"))
		}

	case tok.kind == tokEndTag && tok.name == "select":
		c.flushText()
		if c.hasInSelectScope("select") {
			c.popUntilInclusive(tok.loc, "select")
			c.resetModeFromStack()
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag("select"))
		}

	case tok.kind == tokStartTag && tok.name == "select":
		c.flushText()
		c.report(tok.loc, errs.BadToken("select", "select", "nested select"))
		if c.hasInSelectScope("select") {
			c.popUntilInclusive(tok.loc, "select")
			c.resetModeFromStack()
		}

	case tok.kind == tokStartTag && contains([]string{"input", "keygen", "textarea"}, tok.name):
		c.flushText()
		c.report(tok.loc, errs.BadContent("select"))
		if c.hasInSelectScope("select") {
			c.popUntilInclusive(tok.loc, "select")
			c.resetModeFromStack()
			c.reprocess(tok)
		}

	case tok.kind == tokStartTag && contains([]string{"script", "template"}, tok.name),
		tok.kind == tokEndTag && tok.name == "template":
		c.inHead(tok)

	default:
		c.flushText()
		c.report(tok.loc, errs.BadContent("select"))
	}
}

func (c *constructor) inAfterBody(tok token) {
	switch {
	case isWhitespaceText(tok):
		c.inBody(tok)
	case tok.kind == tokComment:
		c.flushText()
		c.emit(tok.loc, markup.Comment{Body: tok.text})
	case tok.kind == tokDoctype:
		c.report(tok.loc, errs.BadDocument("doctype not allowed here"))
	case tok.kind == tokStartTag && tok.name == "html":
		c.inBody(tok)
	case tok.kind == tokEndTag && tok.name == "html":
		c.flushText()
		c.mode = modeAfterAfterBody
	default:
		c.report(tok.loc, errs.BadContent("after-body"))
		c.mode = modeInBody
		c.reprocess(tok)
	}
}

func (c *constructor) inFrameset(tok token) {
	switch {
	case isWhitespaceText(tok):
		c.appendText(tok.loc, tok.text)
	case tok.kind == tokComment:
		c.flushText()
		c.emit(tok.loc, markup.Comment{Body: tok.text})
	case tok.kind == tokDoctype:
		c.report(tok.loc, errs.BadDocument("doctype not allowed here"))
	case tok.kind == tokStartTag && tok.name == "html":
		c.inBody(tok)
	case tok.kind == tokStartTag && tok.name == "frameset":
		c.flushText()
		c.insertHTMLElement(tok)
	case tok.kind == tokEndTag && tok.name == "frameset":
		c.flushText()
		if len(c.stack) <= 1 {
			c.report(tok.loc, errs.UnmatchedEndTag("frameset"))
			return
		}
		c.popElement(tok.loc)
		if !c.fragment && c.current().tag != "frameset" {
			c.mode = modeAfterFrameset
		}
	case tok.kind == tokStartTag && tok.name == "frame":
		c.flushText()
		c.insertVoid(tok, htmlNS)
	case tok.kind == tokStartTag && tok.name == "noframes":
		c.flushText()
		c.inHead(tok)
	default:
		c.report(tok.loc, errs.BadContent("frameset"))
	}
}

func (c *constructor) inAfterFrameset(tok token) {
	switch {
	case isWhitespaceText(tok):
		c.appendText(tok.loc, tok.text)
	case tok.kind == tokComment:
		c.flushText()
		c.emit(tok.loc, markup.Comment{Body: tok.text})
	case tok.kind == tokDoctype:
		c.report(tok.loc, errs.BadDocument("doctype not allowed here"))
	case tok.kind == tokStartTag && tok.name == "html":
		c.inBody(tok)
	case tok.kind == tokEndTag && tok.name == "html":
		c.flushText()
		c.mode = modeAfterAfterFrameset
	case tok.kind == tokStartTag && tok.name == "noframes":
		c.flushText()
		c.inHead(tok)
	default:
		c.report(tok.loc, errs.BadContent("after-frameset"))
	}
}

// inAfterAfterBody handles both after-after-body and after-after-frameset.
// Comments, whitespace, doctype and <html> are handled alike. For any other
// token, after-after-frameset accepts noframes and reports and drops the
// rest, while after-after-body reports it and reprocesses it in in-body.
func (c *constructor) inAfterAfterBody(tok token) {
	switch {
	case tok.kind == tokComment:
		c.emit(tok.loc, markup.Comment{Body: tok.text})
	case isWhitespaceText(tok):
		c.inBody(tok)
	case tok.kind == tokDoctype:
		c.inBody(tok)
	case tok.kind == tokStartTag && tok.name == "html":
		c.inBody(tok)
	case c.mode == modeAfterAfterFrameset && tok.kind == tokStartTag && tok.name == "noframes":
		c.inHead(tok)
	case c.mode == modeAfterAfterFrameset:
		c.report(tok.loc, errs.BadContent("after-after-frameset"))
	default:
		c.report(tok.loc, errs.BadContent("after-after-body"))
		c.mode = modeInBody
		c.reprocess(tok)
	}
}

// dispatchForeign implements spec §4.F.4's "parsing tokens in foreign
// content": text and comments insert unchanged, most start tags insert as
// elements in the current foreign namespace (SVG tag names case-adjusted),
// and a fixed set of HTML tags breaks back out into HTML content.
func (c *constructor) dispatchForeign(tok token) {
	switch {
	case tok.kind == tokText:
		if strings.ContainsRune(tok.text, 0) {
			c.report(tok.loc, errs.BadToken("NUL", "foreign", "unexpected null"))
		}
		text := strings.ReplaceAll(tok.text, "\x00", "�")
		if strings.TrimSpace(text) != "" {
			c.framesetOK = false
		}
		c.appendText(tok.loc, text)

	case tok.kind == tokComment:
		c.flushText()
		c.emit(tok.loc, markup.Comment{Body: tok.text})

	case tok.kind == tokDoctype:
		c.report(tok.loc, errs.BadDocument("doctype not allowed in foreign content"))

	case tok.kind == tokStartTag && isForeignBreakout(tok):
		c.flushText()
		c.report(tok.loc, errs.MisnestedTag(tok.name, c.current().tag))
		for len(c.stack) > 0 {
			top := c.stack[len(c.stack)-1]
			if top.isHTML() ||
				isHTMLIntegrationPoint(top.name.Space, top.tag, top.encodingAttr) ||
				isMathMLTextIntegrationPoint(top.name.Space, top.tag) {
				break
			}
			c.popElement(tok.loc)
		}
		c.dispatch(tok)

	case tok.kind == tokStartTag:
		c.flushText()
		c.insertForeignElement(tok, c.current().name.Space)

	case tok.kind == tokEndTag && strings.EqualFold(tok.name, c.current().tag):
		c.flushText()
		c.popElement(tok.loc)

	case tok.kind == tokEndTag:
		c.flushText()
		c.foreignEndTag(tok)

	default:
		c.flushText()
	}
}

func isForeignBreakout(tok token) bool {
	if htmlBreakoutTags[tok.name] {
		return true
	}
	if tok.name != "font" {
		return false
	}
	for _, a := range []string{"color", "face", "size"} {
		if _, ok := tok.attr(a); ok {
			return true
		}
	}
	return false
}

// foreignEndTag walks up from the current node looking for a matching tag
// name; if it reaches an HTML-namespace node first, the token is handed
// off to the insertion mode in effect there.
func (c *constructor) foreignEndTag(tok token) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		node := c.stack[i]
		if strings.EqualFold(node.tag, tok.name) {
			for len(c.stack) > i {
				c.popElement(tok.loc)
			}
			return
		}
		if node.isHTML() {
			c.dispatch(tok)
			return
		}
	}
}
