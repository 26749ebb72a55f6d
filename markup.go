// Package markup is the public entry point of the streaming, error-
// recovering HTML/XML parser and serializer: ParseXML/ParseHTML turn a
// byte stream of unknown encoding into a lazy stream of located SAX-style
// signals (core.Located); WriteXML/WriteHTML do the reverse. See
// spec.md / SPEC_FULL.md for the full design.
package markup

import (
	core "github.com/corvidlabs/markup/core"
	"github.com/corvidlabs/markup/encoding"
	"github.com/corvidlabs/markup/html"
	"github.com/corvidlabs/markup/stream"
	"github.com/corvidlabs/markup/xml"
)

// Options, Context, Document, FragmentContext and AutoContext are the
// public configuration surface; re-exported here so callers only need to
// import this package for the common case.
type Options = core.Options
type Context = core.Context

var (
	Document     = core.Document
	AutoContext  = core.AutoContext
)

func FragmentContext(name string) Context { return core.FragmentContext(name) }

// Location, Name, Attribute and every Signal variant are re-exported the
// same way.
type (
	Location               = core.Location
	Name                   = core.Name
	Attribute              = core.Attribute
	Signal                 = core.Signal
	Located                = core.Located
	StartElement           = core.StartElement
	EndElement             = core.EndElement
	Text                   = core.Text
	Doctype                = core.Doctype
	XMLDeclaration         = core.XMLDeclaration
	ProcessingInstruction  = core.ProcessingInstruction
	Comment                = core.Comment
)

// ParseXML decodes src (auto-detecting its encoding unless
// Options.Encoding is set) and runs the XML tokenizer and tree
// constructor over it, producing a lazy stream of located signals.
func ParseXML(src *stream.Stream[byte], opts Options) *stream.Stream[Located] {
	runes := decode(src, opts, encoding.ModeXML, encoding.DefaultXML)
	return xml.Parse(runes, opts)
}

// ParseHTML decodes src the same way, and runs the WHATWG-style HTML
// tokenizer and insertion-mode tree constructor over it.
func ParseHTML(src *stream.Stream[byte], opts Options) *stream.Stream[Located] {
	runes := decode(src, opts, encoding.ModeHTML, encoding.DefaultHTML)
	return html.Parse(runes, opts)
}

func decode(src *stream.Stream[byte], opts Options, mode encoding.Mode, fallback encoding.Encoding) *stream.Stream[rune] {
	enc := fallback
	rest := src
	if opts.Encoding != nil {
		enc = *opts.Encoding
	} else {
		enc, rest = encoding.Detect(src, mode)
	}
	report := func(loc encoding.Location, err error) {
		opts.report(Location{Line: loc.Line, Col: loc.Col}, err)
	}
	return encoding.Decode(rest, enc, report)
}

// WriteXML serializes a stream of located signals as XML bytes.
func WriteXML(sigs *stream.Stream[Located], opts Options) *stream.Stream[byte] {
	return xml.WriteXML(sigs, opts)
}

// WriteHTML serializes a stream of located signals as HTML5 bytes.
func WriteHTML(sigs *stream.Stream[Located], opts Options) *stream.Stream[byte] {
	return html.WriteHTML(sigs, opts)
}
