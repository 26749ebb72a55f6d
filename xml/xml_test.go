package xml

import (
	"testing"

	markup "github.com/corvidlabs/markup/core"
	"github.com/corvidlabs/markup/stream"
	"github.com/stretchr/testify/require"
)

func runesOf(s string) *stream.Stream[rune] {
	return stream.OfSlice([]rune(s))
}

func parse(t *testing.T, doc string, opts markup.Options) ([]markup.Located, []error) {
	t.Helper()
	var reports []error
	opts.Report = func(_ markup.Location, err error) { reports = append(reports, err) }
	var out []markup.Located
	stream.Iter(Parse(runesOf(doc), opts), func(l markup.Located) { out = append(out, l) })
	return out, reports
}

func TestParseBalancesNestedElements(t *testing.T) {
	sigs, reports := parse(t, `<a><b/>text<c></c></a>`, markup.Options{})
	require.Empty(t, reports)

	var names []string
	for _, s := range sigs {
		switch v := s.Sig.(type) {
		case markup.StartElement:
			names = append(names, "+"+v.Name.Local)
		case markup.EndElement:
			names = append(names, "-"+v.Name.Local)
		}
	}
	require.Equal(t, []string{"+a", "+b", "-b", "+c", "-c", "-a"}, names)
}

func TestParseResolvesNamespaces(t *testing.T) {
	sigs, reports := parse(t, `<r xmlns="urn:x"><c/></r>`, markup.Options{})
	require.Empty(t, reports)

	start, ok := sigs[0].Sig.(markup.StartElement)
	require.True(t, ok)
	require.Equal(t, "urn:x", start.Name.Space)

	child, ok := sigs[1].Sig.(markup.StartElement)
	require.True(t, ok)
	require.Equal(t, "urn:x", child.Name.Space)
}

func TestParseUnboundPrefixReportsBadNamespace(t *testing.T) {
	_, reports := parse(t, `<p:r/>`, markup.Options{})
	require.NotEmpty(t, reports)
}

func TestParseMismatchedEndTagRecovers(t *testing.T) {
	sigs, reports := parse(t, `<a><b></a>`, markup.Options{})
	require.NotEmpty(t, reports)

	var names []string
	for _, s := range sigs {
		if e, ok := s.Sig.(markup.EndElement); ok {
			names = append(names, e.Name.Local)
		}
	}
	require.Equal(t, []string{"b", "a"}, names)
}

// An end tag must match the open-element stack on the full namespace-
// qualified name, not just the local part: </a:x> here must not be
// mistaken for a match against an innermost b:x with the same local name
// but a different bound namespace.
func TestParseEndTagMatchesOnNamespaceNotJustLocalName(t *testing.T) {
	sigs, reports := parse(t, `<a:x xmlns:a="urn:a"><b:x xmlns:b="urn:b">t</a:x></b:x>`, markup.Options{})
	require.NotEmpty(t, reports, "the a:x/b:x mismatch must be reported, not silently accepted")

	var names []string
	for _, s := range sigs {
		switch v := s.Sig.(type) {
		case markup.StartElement:
			names = append(names, "+"+v.Name.Space+"|"+v.Name.Local)
		case markup.EndElement:
			names = append(names, "-"+v.Name.Space+"|"+v.Name.Local)
		}
	}
	require.Equal(t, []string{
		"+urn:a|x", "+urn:b|x", "-urn:b|x", "-urn:a|x",
	}, names, "</a:x> must close down to the urn:a x, not stop at the urn:b x sharing its local name")
}

func TestParseStrictEndTagsPanicsOnUnmatched(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
	}()
	parse(t, `</a>`, markup.Options{StrictEndTags: true})
}

func TestWriteXMLEscapesText(t *testing.T) {
	sigs := []markup.Located{
		{Sig: markup.StartElement{Name: markup.Name{Local: "r"}}},
		{Sig: markup.Text{Chunks: []string{"a < b & c"}}},
		{Sig: markup.EndElement{Name: markup.Name{Local: "r"}}},
	}
	out := WriteXML(stream.OfSlice(sigs), markup.Options{})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })
	require.Equal(t, "<r>a &lt; b &amp; c</r>", string(b))
}

func TestWriteXMLBindsElementNamespaceAsDefault(t *testing.T) {
	sigs := []markup.Located{
		{Sig: markup.StartElement{Name: markup.Name{Space: "urn:x", Local: "r"}}},
		{Sig: markup.EndElement{Name: markup.Name{Space: "urn:x", Local: "r"}}},
	}
	out := WriteXML(stream.OfSlice(sigs), markup.Options{})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })
	require.Equal(t, `<r xmlns="urn:x"></r>`, string(b))
}

func TestWriteXMLGeneratesPrefixForNamespacedAttribute(t *testing.T) {
	sigs := []markup.Located{
		{Sig: markup.StartElement{Name: markup.Name{Local: "r"}, Attr: []markup.Attribute{
			{Name: markup.Name{Space: "urn:x", Local: "a"}, Value: "1"},
		}}},
		{Sig: markup.EndElement{Name: markup.Name{Local: "r"}}},
	}
	out := WriteXML(stream.OfSlice(sigs), markup.Options{})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })
	require.Contains(t, string(b), `xmlns:ns1="urn:x"`)
	require.Contains(t, string(b), `ns1:a="1"`)
}
