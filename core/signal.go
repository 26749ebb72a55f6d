package core

import "strconv"

// Location is a 1-based (line, column) cursor into the original byte
// stream. Line is incremented on U+000A only.
type Location struct {
	Line int
	Col  int
}

func (l Location) String() string {
	return strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Col)
}

// Name is an expanded name: a namespace URI paired with a local name. The
// empty string denotes the null namespace.
type Name struct {
	Space string
	Local string
}

func (n Name) String() string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

// Attribute is a single name/value pair as it appeared on a start tag.
type Attribute struct {
	Name  Name
	Value string
}

// Signal is the sum type of every parsing event the core emits. Concrete
// types implement it by way of the unexported sigTag method.
type Signal interface {
	sigTag()
}

// StartElement opens an element. EndElement signals are always balanced
// against a prior StartElement at the same depth, even after recovery.
type StartElement struct {
	Name Name
	Attr []Attribute
}

// EndElement closes the most recently opened, still-open element.
type EndElement struct {
	Name Name
}

// Text carries character data. Chunks is never empty and never contains an
// empty string; concatenation of Chunks yields the logical text run. Chunks
// may be split across multiple strings purely to bound individual string
// length — concatenation always recovers the logical text.
type Text struct {
	Chunks []string
}

// String returns the concatenation of Chunks.
func (t Text) String() string {
	switch len(t.Chunks) {
	case 0:
		return ""
	case 1:
		return t.Chunks[0]
	}
	n := 0
	for _, c := range t.Chunks {
		n += len(c)
	}
	buf := make([]byte, 0, n)
	for _, c := range t.Chunks {
		buf = append(buf, c...)
	}
	return string(buf)
}

// Doctype carries a DOCTYPE declaration. Name, PublicID and SystemID are
// nil when absent; ForceQuirks is set when the identifiers match one of the
// HTML specification's legacy-incompatible patterns.
type Doctype struct {
	Name        *string
	PublicID    *string
	SystemID    *string
	Raw         *string
	ForceQuirks bool
}

// XMLDeclaration is the leading `<?xml ... ?>` of an XML document, if any.
// It is always the first signal of a document stream when present.
type XMLDeclaration struct {
	Version    string
	Encoding   *string
	Standalone *bool
}

// ProcessingInstruction carries a `<?target body?>`.
type ProcessingInstruction struct {
	Target string
	Body   string
}

// Comment carries the text between `<!--` and `-->`.
type Comment struct {
	Body string
}

func (StartElement) sigTag()          {}
func (EndElement) sigTag()            {}
func (Text) sigTag()                  {}
func (Doctype) sigTag()               {}
func (XMLDeclaration) sigTag()        {}
func (ProcessingInstruction) sigTag() {}
func (Comment) sigTag()               {}

// Located pairs a Signal with the Location at which it began.
type Located struct {
	Loc Location
	Sig Signal
}
