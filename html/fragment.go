package html

import markup "github.com/corvidlabs/markup/core"

// fragmentInsertionMode returns the insertion mode a fragment parse for
// contextTag starts in, per spec §4.F.5. The initial open-element stack
// (the synthetic html root, plus the context element for svg/math) is
// set up by Parse.
func fragmentInsertionMode(contextTag string) insertionMode {
	switch contextTag {
	case "title", "textarea":
		return modeText // original mode in-body is restored once text closes
	case "style", "xmp", "iframe", "noembed", "noframes", "script":
		return modeText
	case "tr":
		return modeInRow
	case "tbody", "thead", "tfoot":
		return modeInTableBody
	case "td", "th":
		return modeInCell
	case "table":
		return modeInTable
	case "caption":
		return modeInCaption
	case "colgroup":
		return modeInColumnGroup
	case "col":
		return modeInColumnGroup
	case "select":
		return modeInSelect
	case "option", "optgroup":
		return modeInSelect
	case "head":
		return modeInHead
	case "body":
		return modeInBody
	case "frameset":
		return modeInFrameset
	case "html":
		return modeBeforeHead
	case "svg":
		return modeInBody
	default:
		return modeInBody
	}
}

// fragmentNamespace returns the namespace the synthetic context element
// carries, so a "svg"/"math" fragment context parses its children as
// foreign content from the start.
func fragmentNamespace(contextTag string) string {
	switch contextTag {
	case "svg":
		return svgNS
	case "math":
		return mathNS
	default:
		return htmlNS
	}
}

// detectContext implements spec §4.F.6: given the first non-whitespace,
// non-comment token (found by firstSignificantToken), decide Document vs.
// Fragment context when the caller asked for auto-detection.
func detectContext(first token) markup.Context {
	switch first.kind {
	case tokDoctype:
		return markup.Document
	case tokStartTag:
		if ctx, ok := tableSectionFragmentContext[first.name]; ok {
			return markup.FragmentContext(ctx)
		}
		if first.name == "svg" {
			return markup.FragmentContext("svg")
		}
		if first.name == "math" {
			return markup.FragmentContext("math")
		}
		return markup.Document
	default:
		return markup.Document
	}
}
