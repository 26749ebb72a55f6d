package core

import (
	"github.com/corvidlabs/markup/encoding"
	"github.com/corvidlabs/markup/mlog"
)

// contextKind distinguishes "caller never set Context" from "caller fixed
// it to Document" — both look like a bare struct literal if Document were
// the zero value, which is exactly the bug that made the zero value stop
// auto-detecting. Giving "unset" its own zero-value kind keeps
// Context{} and Document visibly different.
type contextKind int

const (
	contextAuto contextKind = iota
	contextDocument
	contextFragment
)

// Context fixes the parse context: a whole Document, or a Fragment being
// parsed as if inserted inside the named element. The zero value is the
// auto-detect sentinel, not Document — use Document or FragmentContext to
// fix the context explicitly.
type Context struct {
	kind         contextKind
	FragmentName string // meaningful only when this is a Fragment context; "" means auto-detect which element
}

// Document fixes the parse context to a whole Document.
var Document = Context{kind: contextDocument}

// FragmentContext builds a Fragment context for the named element.
func FragmentContext(name string) Context {
	return Context{kind: contextFragment, FragmentName: name}
}

// AutoContext requests context auto-detection (spec §4.F.6): peek the
// first non-whitespace, non-comment token to decide Document vs Fragment.
// Equivalent to the zero value; spelled out for callers who want the
// request to read as deliberate rather than an omitted field.
var AutoContext = Context{kind: contextAuto}

// IsAuto reports whether detection should run: either the caller left
// Context unset (the zero value) or explicitly asked for Fragment
// auto-detection without naming an element.
func (c Context) IsAuto() bool {
	return c.kind == contextAuto || (c.kind == contextFragment && c.FragmentName == "")
}

// IsFragment reports whether c resolves to a Fragment context. Only
// meaningful once IsAuto() is false, i.e. after detection has run or the
// caller fixed the context explicitly.
func (c Context) IsFragment() bool { return c.kind == contextFragment }

// Options configures a parse or a write. The zero value is a usable
// default: auto-detect encoding and context, recover from every error by
// reporting it to the default logger and continuing.
type Options struct {
	// Report is called for every recoverable or fatal error before
	// recovery happens. A nil Report logs through mlog's default Logger.
	Report func(Location, error)

	// Encoding bypasses automatic detection when non-nil.
	Encoding *encoding.Encoding

	// Namespace resolves an XML prefix the document never bound via
	// xmlns/xmlns:prefix. Returning ok=false reports BadNamespace and
	// treats the prefix as empty.
	Namespace func(prefix string) (uri string, ok bool)

	// Entity resolves an XML entity name the built-in five and numeric
	// references didn't cover. The returned string is inserted as raw
	// UTF-8 characters.
	Entity func(name string) (expansion string, ok bool)

	// Context fixes the parse context. The zero value auto-detects.
	Context Context

	// Prefix is consulted by the XML writer when a namespace URI has no
	// prefix bound in scope; returning ok=false reports BadNamespace.
	Prefix func(uri string) (prefix string, ok bool)

	// StrictEndTags promotes an UnmatchedEndTag from recoverable to a
	// propagated parse failure (supplements spec.md, grounded on
	// runxml.RunXML.ValidateClosingTag). Default false: always recover.
	StrictEndTags bool
}

// defaultLogger receives every report when Options.Report is nil.
var defaultLogger = &mlog.Logger{}

func (o Options) report(loc Location, err error) {
	if o.Report != nil {
		o.Report(loc, err)
		return
	}
	defaultLogger.E(loc.String()+":", err)
}
