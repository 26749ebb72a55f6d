package html

import (
	"testing"

	markup "github.com/corvidlabs/markup/core"
	"github.com/corvidlabs/markup/stream"
	"github.com/stretchr/testify/require"
)

func runesOf(s string) *stream.Stream[rune] {
	return stream.OfSlice([]rune(s))
}

func tokenize(t *testing.T, s string) ([]token, []error) {
	t.Helper()
	var reports []error
	toks, _ := tokens(runesOf(s), func(_ markup.Location, err error) { reports = append(reports, err) })
	var out []token
	stream.Iter(toks, func(tok token) { out = append(out, tok) })
	return out, reports
}

func TestTokenizerStartAndEndTag(t *testing.T) {
	toks, reports := tokenize(t, `<p class="a">hi</p>`)
	require.Empty(t, reports)
	require.Len(t, toks, 3)

	require.Equal(t, tokStartTag, toks[0].kind)
	require.Equal(t, "p", toks[0].name)
	v, ok := toks[0].attr("class")
	require.True(t, ok)
	require.Equal(t, "a", v)

	require.Equal(t, tokText, toks[1].kind)
	require.Equal(t, "hi", toks[1].text)

	require.Equal(t, tokEndTag, toks[2].kind)
	require.Equal(t, "p", toks[2].name)
}

func TestTokenizerSelfClosingVoidTag(t *testing.T) {
	toks, _ := tokenize(t, `<br/>`)
	require.Len(t, toks, 1)
	require.True(t, toks[0].selfClose)
}

func TestTokenizerUnknownEntityReportsAndKeepsLiteralText(t *testing.T) {
	toks, reports := tokenize(t, `&bogus;`)
	require.Len(t, toks, 1)
	require.Equal(t, "&bogus;", toks[0].text)
	require.NotEmpty(t, reports)
}

func TestTokenizerAmbiguousAmpersandBeforeSpaceIsLiteral(t *testing.T) {
	toks, reports := tokenize(t, `a & b`)
	require.Len(t, toks, 1)
	require.Equal(t, "a & b", toks[0].text)
	require.Empty(t, reports)
}

func TestTokenizerNamedEntityExpands(t *testing.T) {
	toks, reports := tokenize(t, `&amp;`)
	require.Empty(t, reports)
	require.Equal(t, "&", toks[0].text)
}

func TestTokenizerNamedEntityCoversExpandedTable(t *testing.T) {
	cases := map[string]string{
		"OElig":    "Œ",
		"Scaron":   "Š",
		"alpha":    "α",
		"Omega":    "Ω",
		"thetasym": "ϑ",
		"hArr":     "⇔",
		"there4":   "∴",
		"starf":    "★",
	}
	for name, want := range cases {
		toks, reports := tokenize(t, "&"+name+";")
		require.Empty(t, reports, name)
		require.Equal(t, want, toks[0].text, name)
	}
}

func TestTokenizerDoctypeHTML5(t *testing.T) {
	toks, reports := tokenize(t, `<!DOCTYPE html>`)
	require.Empty(t, reports)
	require.Len(t, toks, 1)
	require.Equal(t, tokDoctype, toks[0].kind)
	require.NotNil(t, toks[0].dt.Name)
	require.Equal(t, "html", *toks[0].dt.Name)
	require.False(t, toks[0].dt.ForceQuirks)
}

func TestTokenizerLegacyDoctypeForcesQuirks(t *testing.T) {
	toks, _ := tokenize(t, `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 3.2 Final//EN">`)
	require.Len(t, toks, 1)
	require.True(t, toks[0].dt.ForceQuirks)
}

func TestTokenizerRawTextScriptBody(t *testing.T) {
	tk := newTokenizer(runesOf(`<p>x</p></script>garbage`), nil)
	tk.setRawText("script")
	tok, ok := tk.next()
	require.True(t, ok)
	require.Equal(t, tokText, tok.kind)
	require.Equal(t, "<p>x</p>", tok.text)
}

func TestParseBalancesSimpleBody(t *testing.T) {
	sigs, reports := parseFragment(t, `<div>hi</div>`, "body")
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
	require.Equal(t, []string{"+div", "-div"}, names)
}

func TestParseImpliedTableBodyInsertion(t *testing.T) {
	sigs, _ := parseFragment(t, `<table><tr><td>x</td></tr></table>`, "body")

	var starts []string
	for _, s := range sigs {
		if v, ok := s.Sig.(markup.StartElement); ok {
			starts = append(starts, v.Name.Local)
		}
	}
	require.Contains(t, starts, "table")
	require.Contains(t, starts, "tr")
	require.Contains(t, starts, "td")
}

func parseFragment(t *testing.T, doc, context string) ([]markup.Located, []error) {
	t.Helper()
	var reports []error
	opts := markup.Options{
		Report:  func(_ markup.Location, err error) { reports = append(reports, err) },
		Context: markup.FragmentContext(context),
	}
	var out []markup.Located
	stream.Iter(Parse(runesOf(doc), opts), func(l markup.Located) { out = append(out, l) })
	return out, reports
}

func TestWriteHTMLBooleanAttributeWrittenBare(t *testing.T) {
	sigs := []markup.Located{
		{Sig: markup.StartElement{Name: markup.Name{Local: "input"}, Attr: []markup.Attribute{
			{Name: markup.Name{Local: "disabled"}, Value: "disabled"},
		}}},
	}
	out := WriteHTML(stream.OfSlice(sigs), markup.Options{})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })
	require.Equal(t, "<input disabled>", string(b))
}

func TestWriteHTMLForeignElementAlwaysClosed(t *testing.T) {
	sigs := []markup.Located{
		{Sig: markup.StartElement{Name: markup.Name{Space: svgNS, Local: "svg"}}},
		{Sig: markup.EndElement{Name: markup.Name{Space: svgNS, Local: "svg"}}},
	}
	out := WriteHTML(stream.OfSlice(sigs), markup.Options{})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })
	require.Equal(t, "<svg></svg>", string(b))
}

func TestWriteHTMLAttributeQuotesOmittedWhenUnambiguous(t *testing.T) {
	sigs := []markup.Located{
		{Sig: markup.StartElement{Name: markup.Name{Local: "a"}, Attr: []markup.Attribute{
			{Name: markup.Name{Local: "href"}, Value: "/x/y"},
		}}},
		{Sig: markup.EndElement{Name: markup.Name{Local: "a"}}},
	}
	out := WriteHTML(stream.OfSlice(sigs), markup.Options{})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })
	require.Equal(t, `<a href=/x/y></a>`, string(b))
}

func TestWriteHTMLAttributeQuotedWhenValueHasWhitespace(t *testing.T) {
	sigs := []markup.Located{
		{Sig: markup.StartElement{Name: markup.Name{Local: "a"}, Attr: []markup.Attribute{
			{Name: markup.Name{Local: "title"}, Value: "a b"},
		}}},
		{Sig: markup.EndElement{Name: markup.Name{Local: "a"}}},
	}
	out := WriteHTML(stream.OfSlice(sigs), markup.Options{})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })
	require.Equal(t, `<a title="a b"></a>`, string(b))
}

func TestWriteHTMLRawTextBodyReportsEmbeddedClosingSequence(t *testing.T) {
	var reports []error
	sigs := []markup.Located{
		{Sig: markup.StartElement{Name: markup.Name{Local: "script"}}},
		{Sig: markup.Text{Chunks: []string{"var x = '</script>';"}}},
		{Sig: markup.EndElement{Name: markup.Name{Local: "script"}}},
	}
	out := WriteHTML(stream.OfSlice(sigs), markup.Options{
		Report: func(_ markup.Location, err error) { reports = append(reports, err) },
	})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })
	require.NotEmpty(t, reports)
	require.Equal(t, "<script>var x = '</script>';</script>", string(b))
}

func TestWriteHTMLVoidElementReportsInterveningContent(t *testing.T) {
	var reports []error
	sigs := []markup.Located{
		{Sig: markup.StartElement{Name: markup.Name{Local: "br"}}},
		{Sig: markup.Text{Chunks: []string{"stray"}}},
		{Sig: markup.EndElement{Name: markup.Name{Local: "br"}}},
	}
	out := WriteHTML(stream.OfSlice(sigs), markup.Options{
		Report: func(_ markup.Location, err error) { reports = append(reports, err) },
	})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })
	require.NotEmpty(t, reports)
	require.Equal(t, "<br>stray", string(b))
}

func TestWriteHTMLVoidElementsBackToBackNeedNoReport(t *testing.T) {
	var reports []error
	sigs := []markup.Located{
		{Sig: markup.StartElement{Name: markup.Name{Local: "br"}}},
		{Sig: markup.EndElement{Name: markup.Name{Local: "br"}}},
		{Sig: markup.StartElement{Name: markup.Name{Local: "br"}}},
		{Sig: markup.EndElement{Name: markup.Name{Local: "br"}}},
	}
	out := WriteHTML(stream.OfSlice(sigs), markup.Options{
		Report: func(_ markup.Location, err error) { reports = append(reports, err) },
	})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })
	require.Empty(t, reports)
	require.Equal(t, "<br><br>", string(b))
}
