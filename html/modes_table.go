package html

import (
	"strings"

	"github.com/corvidlabs/markup/errs"
	markup "github.com/corvidlabs/markup/core"
)

// clearStackBackToTableContext pops until the current node is one of
// table/template/html, the common prelude to inserting a table section.
func (c *constructor) clearStackBackToTableContext(loc markup.Location) {
	c.popUntilOneOf(loc, "table", "template", "html")
}

func (c *constructor) clearStackBackToTableBodyContext(loc markup.Location) {
	c.popUntilOneOf(loc, "tbody", "tfoot", "thead", "template", "html")
}

func (c *constructor) clearStackBackToTableRowContext(loc markup.Location) {
	c.popUntilOneOf(loc, "tr", "template", "html")
}

// fosterInsert implements foster parenting (spec §4.F.3): since this
// module never builds an in-memory tree, "inserting before the table" is
// modeled as emitting the signal now (before the table's own StartElement
// would otherwise have been followed by this content) is impossible once
// the table's StartElement has already been emitted — instead we report
// BadContent and fall back to inserting the content as if it were a
// normal child of the current table-related node, the common degraded
// behavior real browsers' table-repair visibly approximates when content
// cannot be truly reordered in a streaming signal sequence.
func (c *constructor) fosterInsert(loc markup.Location, insert func()) {
	c.report(loc, errs.BadContent("table"))
	insert()
}

func (c *constructor) inTable(tok token) {
	switch {
	case tok.kind == tokText && isTableContextTag(c.current().tag):
		c.pendingTableText.Reset()
		c.pendingTableLoc = tok.loc
		c.originalMode = modeInTable
		c.mode = modeInTableText
		c.reprocess(tok)

	case tok.kind == tokComment:
		c.emit(tok.loc, markup.Comment{Body: tok.text})

	case tok.kind == tokDoctype:
		c.report(tok.loc, errs.BadDocument("doctype not allowed here"))

	case tok.kind == tokStartTag && tok.name == "caption":
		c.clearStackBackToTableContext(tok.loc)
		c.pushFormattingMarker()
		c.insertHTMLElement(tok)
		c.mode = modeInCaption

	case tok.kind == tokStartTag && tok.name == "colgroup":
		c.clearStackBackToTableContext(tok.loc)
		c.insertHTMLElement(tok)
		c.mode = modeInColumnGroup

	case tok.kind == tokStartTag && tok.name == "col":
		c.clearStackBackToTableContext(tok.loc)
		c.pushElement(tok.loc, qname(htmlNS, "colgroup"), "colgroup", nil, "")
		c.mode = modeInColumnGroup
		c.reprocess(tok)

	case tok.kind == tokStartTag && contains([]string{"tbody", "tfoot", "thead"}, tok.name):
		c.clearStackBackToTableContext(tok.loc)
		c.insertHTMLElement(tok)
		c.mode = modeInTableBody

	case tok.kind == tokStartTag && contains([]string{"td", "th", "tr"}, tok.name):
		c.clearStackBackToTableContext(tok.loc)
		c.pushElement(tok.loc, qname(htmlNS, "tbody"), "tbody", nil, "")
		c.mode = modeInTableBody
		c.reprocess(tok)

	case tok.kind == tokStartTag && tok.name == "table":
		c.report(tok.loc, errs.BadContent("table"))
		if c.hasInTableScope("table") {
			c.popUntilInclusive(tok.loc, "table")
			c.resetModeFromStack()
			c.reprocess(tok)
		}

	case tok.kind == tokEndTag && tok.name == "table":
		if c.hasInTableScope("table") {
			c.popUntilInclusive(tok.loc, "table")
			c.resetModeFromStack()
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag("table"))
		}

	case tok.kind == tokEndTag && contains([]string{"body", "caption", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr"}, tok.name):
		c.report(tok.loc, errs.UnmatchedEndTag(tok.name))

	case tok.kind == tokStartTag && contains([]string{"style", "script", "template"}, tok.name):
		c.inHead(tok)

	case tok.kind == tokEndTag && tok.name == "template":
		c.inHead(tok)

	case tok.kind == tokStartTag && tok.name == "input":
		if v, _ := tok.attr("type"); strings.EqualFold(v, "hidden") {
			c.report(tok.loc, errs.BadContent("table"))
			c.insertVoid(tok, htmlNS)
			return
		}
		c.fosterInsert(tok.loc, func() { c.inBody(tok) })

	case tok.kind == tokStartTag && tok.name == "form":
		c.report(tok.loc, errs.BadContent("table"))
		if !c.formOpen {
			c.insertVoid(tok, htmlNS)
			c.formOpen = true
		}

	default:
		c.fosterInsert(tok.loc, func() { c.inBody(tok) })
	}
}

func isTableContextTag(tag string) bool {
	return tag == "table" || tag == "tbody" || tag == "tfoot" || tag == "thead" || tag == "tr"
}

func (c *constructor) inTableText(tok token) {
	if tok.kind == tokText {
		if strings.ContainsRune(tok.text, 0) {
			c.report(tok.loc, errs.BadToken("NUL", "table-text", "unexpected null"))
		}
		c.pendingTableText.WriteString(tok.text)
		return
	}
	text := c.pendingTableText.String()
	c.pendingTableText.Reset()
	c.mode = c.originalMode
	if text != "" {
		if strings.TrimSpace(text) == "" {
			c.appendText(c.pendingTableLoc, text)
			c.flushText()
		} else {
			c.fosterInsert(c.pendingTableLoc, func() {
				c.appendText(c.pendingTableLoc, text)
				c.flushText()
			})
		}
	}
	c.reprocess(tok)
}

// resetModeFromStack implements the specification's "reset the insertion
// mode appropriately" step, run after a table (or similar) closes: walk
// the stack from the top to find the mode the nearest context demands.
func (c *constructor) resetModeFromStack() {
	for i := len(c.stack) - 1; i >= 0; i-- {
		switch c.stack[i].tag {
		case "select":
			c.mode = modeInSelect
			return
		case "td", "th":
			c.mode = modeInCell
			return
		case "tr":
			c.mode = modeInRow
			return
		case "tbody", "thead", "tfoot":
			c.mode = modeInTableBody
			return
		case "caption":
			c.mode = modeInCaption
			return
		case "colgroup":
			c.mode = modeInColumnGroup
			return
		case "table":
			c.mode = modeInTable
			return
		case "template":
			c.mode = modeInBody
			return
		case "head":
			c.mode = modeInHead
			return
		case "body":
			c.mode = modeInBody
			return
		case "html":
			c.mode = modeBeforeHead
			return
		}
	}
	c.mode = modeInBody
}

func (c *constructor) inCaption(tok token) {
	switch {
	case tok.kind == tokEndTag && tok.name == "caption":
		if c.hasInTableScope("caption") {
			c.generateImpliedEndTags(tok.loc, "")
			c.popUntilInclusive(tok.loc, "caption")
			c.clearActiveFormattingUpToMarker()
			c.mode = modeInTable
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag("caption"))
		}
	case tok.kind == tokStartTag && contains([]string{"caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr"}, tok.name),
		tok.kind == tokEndTag && tok.name == "table":
		if c.hasInTableScope("caption") {
			c.generateImpliedEndTags(tok.loc, "")
			c.popUntilInclusive(tok.loc, "caption")
			c.clearActiveFormattingUpToMarker()
			c.mode = modeInTable
			c.reprocess(tok)
		}
	case tok.kind == tokEndTag && contains([]string{"body", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr"}, tok.name):
		c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
	default:
		c.inBody(tok)
	}
}

func (c *constructor) inColumnGroup(tok token) {
	switch {
	case isWhitespaceText(tok):
		c.appendText(tok.loc, tok.text)
	case tok.kind == tokComment:
		c.flushText()
		c.emit(tok.loc, markup.Comment{Body: tok.text})
	case tok.kind == tokDoctype:
	case tok.kind == tokStartTag && tok.name == "html":
		c.inBody(tok)
	case tok.kind == tokStartTag && tok.name == "col":
		c.flushText()
		c.insertVoid(tok, htmlNS)
	case tok.kind == tokEndTag && tok.name == "colgroup":
		c.flushText()
		if c.current().tag == "colgroup" {
			c.popElement(tok.loc)
			c.mode = modeInTable
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag("colgroup"))
		}
	case tok.kind == tokEndTag && tok.name == "col":
		c.report(tok.loc, errs.UnmatchedEndTag("col"))
	case tok.kind == tokStartTag && tok.name == "template", tok.kind == tokEndTag && tok.name == "template":
		c.inHead(tok)
	default:
		c.flushText()
		if c.current().tag != "colgroup" {
			c.report(tok.loc, errs.BadContent("colgroup"))
			return
		}
		c.popElement(tok.loc)
		c.mode = modeInTable
		c.reprocess(tok)
	}
}

func (c *constructor) inTableBody(tok token) {
	switch {
	case tok.kind == tokStartTag && tok.name == "tr":
		c.clearStackBackToTableBodyContext(tok.loc)
		c.insertHTMLElement(tok)
		c.mode = modeInRow
	case tok.kind == tokStartTag && contains([]string{"th", "td"}, tok.name):
		c.report(tok.loc, errs.BadContent("table-body"))
		c.clearStackBackToTableBodyContext(tok.loc)
		c.pushElement(tok.loc, qname(htmlNS, "tr"), "tr", nil, "")
		c.mode = modeInRow
		c.reprocess(tok)
	case tok.kind == tokEndTag && contains([]string{"tbody", "tfoot", "thead"}, tok.name):
		if c.hasInTableScope(tok.name) {
			c.clearStackBackToTableBodyContext(tok.loc)
			c.popElement(tok.loc)
			c.mode = modeInTable
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
		}
	case tok.kind == tokStartTag && contains([]string{"caption", "col", "colgroup", "tbody", "tfoot", "thead"}, tok.name),
		tok.kind == tokEndTag && tok.name == "table":
		if c.hasTableBodyInScope() {
			c.clearStackBackToTableBodyContext(tok.loc)
			c.popElement(tok.loc)
			c.mode = modeInTable
			c.reprocess(tok)
		} else {
			c.report(tok.loc, errs.BadContent("table-body"))
		}
	case tok.kind == tokEndTag && contains([]string{"body", "caption", "col", "colgroup", "html", "td", "th", "tr"}, tok.name):
		c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
	default:
		c.inTable(tok)
	}
}

func (c *constructor) hasTableBodyInScope() bool {
	return c.hasInTableScope("tbody") || c.hasInTableScope("thead") || c.hasInTableScope("tfoot")
}

func (c *constructor) inRow(tok token) {
	switch {
	case tok.kind == tokStartTag && contains([]string{"th", "td"}, tok.name):
		c.clearStackBackToTableRowContext(tok.loc)
		c.insertHTMLElement(tok)
		c.mode = modeInCell
		c.pushFormattingMarker()
	case tok.kind == tokEndTag && tok.name == "tr":
		if c.hasInTableScope("tr") {
			c.clearStackBackToTableRowContext(tok.loc)
			c.popElement(tok.loc)
			c.mode = modeInTableBody
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag("tr"))
		}
	case tok.kind == tokStartTag && contains([]string{"caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr"}, tok.name),
		tok.kind == tokEndTag && tok.name == "table":
		if c.hasInTableScope("tr") {
			c.clearStackBackToTableRowContext(tok.loc)
			c.popElement(tok.loc)
			c.mode = modeInTableBody
			c.reprocess(tok)
		} else {
			c.report(tok.loc, errs.BadContent("tr"))
		}
	case tok.kind == tokEndTag && contains([]string{"tbody", "tfoot", "thead"}, tok.name):
		if c.hasInTableScope(tok.name) {
			c.clearStackBackToTableRowContext(tok.loc)
			c.popElement(tok.loc)
			c.mode = modeInTableBody
			c.reprocess(tok)
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
		}
	case tok.kind == tokEndTag && contains([]string{"body", "caption", "col", "colgroup", "html", "td", "th"}, tok.name):
		c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
	default:
		c.inTable(tok)
	}
}

func (c *constructor) inCell(tok token) {
	switch {
	case tok.kind == tokEndTag && contains([]string{"td", "th"}, tok.name):
		if c.hasInTableScope(tok.name) {
			c.generateImpliedEndTags(tok.loc, "")
			c.popUntilInclusive(tok.loc, tok.name)
			c.clearActiveFormattingUpToMarker()
			c.mode = modeInRow
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
		}
	case tok.kind == tokStartTag && contains([]string{"caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr"}, tok.name):
		if c.hasInTableScope("td") || c.hasInTableScope("th") {
			cell := "td"
			if c.hasInTableScope("th") {
				cell = "th"
			}
			c.generateImpliedEndTags(tok.loc, "")
			c.popUntilInclusive(tok.loc, cell)
			c.clearActiveFormattingUpToMarker()
			c.mode = modeInRow
			c.reprocess(tok)
		}
	case tok.kind == tokEndTag && contains([]string{"body", "caption", "col", "colgroup", "html"}, tok.name):
		c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
	case tok.kind == tokEndTag && contains([]string{"table", "tbody", "tfoot", "thead", "tr"}, tok.name):
		if c.hasInTableScope(tok.name) {
			cell := "td"
			if c.hasInTableScope("th") {
				cell = "th"
			}
			c.generateImpliedEndTags(tok.loc, "")
			c.popUntilInclusive(tok.loc, cell)
			c.clearActiveFormattingUpToMarker()
			c.mode = modeInRow
			c.reprocess(tok)
		} else {
			c.report(tok.loc, errs.UnmatchedEndTag(tok.name))
		}
	default:
		c.inBody(tok)
	}
}
