package html

import (
	"github.com/corvidlabs/markup/errs"
	markup "github.com/corvidlabs/markup/core"
)

// pushFormattingMarker pushes a scope marker onto the list of active
// formatting elements, used when entering a new "context" that adoption
// agency reconstruction must not reach past (applet/object/template,
// table cells, captions).
func (c *constructor) pushFormattingMarker() {
	c.afe = append(c.afe, afEntry{marker: true})
}

// insertFormattingElement pushes name onto the stack of open elements and
// appends a matching entry to the list of active formatting elements,
// applying the Noah's Ark clause (spec §4.F.2): if three elements with
// the same tag, namespace and attributes already appear since the last
// marker, the earliest is removed first.
func (c *constructor) insertFormattingElement(loc markup.Location, name markup.Name, tag string, attrs []markup.Attribute) {
	c.applyNoahsArk(name, tag, attrs)
	id := c.pushElementID(loc, name, tag, attrs)
	c.afe = append(c.afe, afEntry{id: id, name: name, tag: tag, attrs: attrs})
}

func (c *constructor) applyNoahsArk(name markup.Name, tag string, attrs []markup.Attribute) {
	matches := 0
	earliest := -1
	for i := len(c.afe) - 1; i >= 0; i-- {
		e := c.afe[i]
		if e.marker {
			break
		}
		if e.name == name && sameAttrs(e.attrs, attrs) {
			matches++
			earliest = i
		}
	}
	if matches >= 3 {
		c.afe = append(c.afe[:earliest], c.afe[earliest+1:]...)
	}
}

func sameAttrs(a, b []markup.Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for _, av := range a {
		found := false
		for _, bv := range b {
			if av.Name == bv.Name && av.Value == bv.Value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// onStack reports whether the stack of open elements still carries the
// entry that created afe entry e.
func (c *constructor) onStack(e afEntry) (int, bool) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].id == e.id {
			return i, true
		}
	}
	return -1, false
}

// reconstructActiveFormattingElements implements spec §4.F's formatting
// reconstruction step, run before inserting text or an element in in-body
// (and the table/cell/select modes layered on it): any afe entries since
// the last marker whose element fell off the stack of open elements (via
// the "no furthest block" adoption-agency branch, or implicit closing)
// are re-created as children of the current insertion point.
func (c *constructor) reconstructActiveFormattingElements(loc markup.Location) {
	if len(c.afe) == 0 {
		return
	}
	last := len(c.afe) - 1
	if c.afe[last].marker {
		return
	}
	if _, onStack := c.onStack(c.afe[last]); onStack {
		return
	}
	i := last
	for i > 0 {
		i--
		if c.afe[i].marker {
			i++
			break
		}
		if _, onStack := c.onStack(c.afe[i]); onStack {
			i++
			break
		}
	}
	for ; i <= last; i++ {
		e := c.afe[i]
		id := c.pushElementID(loc, e.name, e.tag, e.attrs)
		c.afe[i].id = id
	}
}

// clearActiveFormattingUpToMarker discards afe entries back to and
// including the most recent marker, used when a table cell, caption or
// similar scope boundary closes.
func (c *constructor) clearActiveFormattingUpToMarker() {
	for len(c.afe) > 0 {
		last := len(c.afe) - 1
		marker := c.afe[last].marker
		c.afe = c.afe[:last]
		if marker {
			return
		}
	}
}

// adoptionAgency implements a deliberately reduced form of spec §4.F's
// adoption agency algorithm (see DESIGN.md): it fully handles the common
// "no furthest block" case — the misnested formatting element has nothing
// but other formatting elements above it on the stack — which is what the
// specification's own worked examples (and this module's scenario 3) turn
// on. When a "special" element does intervene, this implementation falls
// back to closing everything down to and including the formatting element
// rather than running the full active-formatting-element cloning loop;
// it still reports MisnestedTag so the caller can see the simplification
// was invoked on non-trivial input.
func (c *constructor) adoptionAgency(loc markup.Location, tag string) {
	for iteration := 0; iteration < 8; iteration++ {
		idx := -1
		for i := len(c.afe) - 1; i >= 0; i-- {
			if c.afe[i].marker {
				break
			}
			if c.afe[i].tag == tag {
				idx = i
				break
			}
		}
		if idx < 0 {
			c.anyOtherEndTag(loc, tag)
			return
		}
		entry := c.afe[idx]
		stackIdx, onStack := c.onStack(entry)
		if !onStack {
			c.afe = append(c.afe[:idx], c.afe[idx+1:]...)
			return
		}
		if !c.hasInScope(tag, defaultScopeBoundary) {
			c.report(loc, errs.UnmatchedEndTag(tag))
			return
		}

		furthest := -1
		for i := stackIdx + 1; i < len(c.stack); i++ {
			if specialElements[c.stack[i].tag] {
				furthest = i
				break
			}
		}

		if furthest < 0 {
			where := ""
			if stackIdx+1 < len(c.stack) {
				where = c.stack[stackIdx+1].tag
			}
			if where != "" {
				c.report(loc, errs.MisnestedTag(tag, where))
			}
			for len(c.stack) > stackIdx {
				c.popElement(loc)
			}
			c.afe = append(c.afe[:idx], c.afe[idx+1:]...)
			return
		}

		// Reduced handling of the furthest-block branch (see doc comment
		// above): close down to and including the formatting element,
		// dropping it (and nothing else) from the afe list. This keeps
		// the output balanced and reports the misnesting without running
		// the full bookmark/clone loop.
		c.report(loc, errs.MisnestedTag(tag, c.stack[furthest].tag))
		for len(c.stack) > stackIdx {
			c.popElement(loc)
		}
		c.afe = append(c.afe[:idx], c.afe[idx+1:]...)
		return
	}
}
