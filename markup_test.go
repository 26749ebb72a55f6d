package markup

import (
	"testing"

	"github.com/corvidlabs/markup/source"
	"github.com/corvidlabs/markup/stream"
	"github.com/stretchr/testify/require"
)

func collect(sigs *stream.Stream[Located]) []Located {
	var out []Located
	stream.Iter(sigs, func(l Located) { out = append(out, l) })
	return out
}

func parseXMLWithReports(t *testing.T, doc string) ([]Located, []error) {
	t.Helper()
	var reports []error
	opts := Options{Report: func(_ Location, err error) { reports = append(reports, err) }}
	return collect(ParseXML(source.FromString(doc), opts)), reports
}

func parseHTMLWithReports(t *testing.T, doc string, opts Options) ([]Located, []error) {
	t.Helper()
	var reports []error
	opts.Report = func(_ Location, err error) { reports = append(reports, err) }
	return collect(ParseHTML(source.FromString(doc), opts)), reports
}

// Scenario 1: minimal XML document.
func TestScenarioMinimalXML(t *testing.T) {
	sigs, reports := parseXMLWithReports(t, `<?xml version="1.0"?><r>hi</r>`)
	require.Empty(t, reports)
	require.Len(t, sigs, 4)

	decl, ok := sigs[0].Sig.(XMLDeclaration)
	require.True(t, ok)
	require.Equal(t, "1.0", decl.Version)

	start, ok := sigs[1].Sig.(StartElement)
	require.True(t, ok)
	require.Equal(t, "r", start.Name.Local)
	require.Empty(t, start.Attr)

	text, ok := sigs[2].Sig.(Text)
	require.True(t, ok)
	require.Equal(t, "hi", text.String())

	end, ok := sigs[3].Sig.(EndElement)
	require.True(t, ok)
	require.Equal(t, "r", end.Name.Local)
}

// Scenario 2: a bare '&' recovers as literal text plus a reported error.
func TestScenarioEntityRecovery(t *testing.T) {
	sigs, reports := parseXMLWithReports(t, `<r>a & b</r>`)
	require.NotEmpty(t, reports)

	require.Len(t, sigs, 3)
	_, ok := sigs[0].Sig.(StartElement)
	require.True(t, ok)
	text, ok := sigs[1].Sig.(Text)
	require.True(t, ok)
	require.Equal(t, "a & b", text.String())
	_, ok = sigs[2].Sig.(EndElement)
	require.True(t, ok)
}

// Scenario 3: misnested formatting elements recover through the adoption
// agency algorithm's "no furthest block" case.
func TestScenarioMisnestedFormatting(t *testing.T) {
	sigs, _ := parseHTMLWithReports(t, `<p>1<b>2<i>3</b>4</i>5</p>`, Options{Context: FragmentContext("body")})

	var starts, ends []string
	var texts []string
	for _, s := range sigs {
		switch v := s.Sig.(type) {
		case StartElement:
			starts = append(starts, v.Name.Local)
		case EndElement:
			ends = append(ends, v.Name.Local)
		case Text:
			texts = append(texts, v.String())
		}
	}

	require.Contains(t, starts, "p")
	require.Contains(t, starts, "b")
	// the adoption agency re-opens a second "i" after closing the first,
	// so "i" must appear as a start tag at least twice.
	count := 0
	for _, s := range starts {
		if s == "i" {
			count++
		}
	}
	require.GreaterOrEqual(t, count, 2)
	require.Equal(t, []string{"1", "2", "3", "4", "5"}, texts)

	// every opened element is eventually balanced.
	require.Equal(t, len(starts), len(ends))
}

// Scenario 4: content inside foreign (SVG) context breaks back out into
// HTML content on an unexpected <p>, reporting a misnesting.
func TestScenarioForeignBreakout(t *testing.T) {
	sigs, reports := parseHTMLWithReports(t, `<svg><g><p>x</svg>`, Options{Context: FragmentContext("body")})

	require.NotEmpty(t, reports, "expected at least one reported parse error")

	var sawSVGStart, sawPAfterSVG bool
	for _, s := range sigs {
		if se, ok := s.Sig.(StartElement); ok {
			if se.Name.Local == "svg" {
				sawSVGStart = true
			}
			if se.Name.Local == "p" && se.Name.Space == "" {
				sawPAfterSVG = true
			}
		}
	}
	require.True(t, sawSVGStart)
	require.True(t, sawPAfterSVG, "the breakout <p> must land back in the HTML namespace")
}

// Scenario 5: a bare <td> with no context auto-detects a "tr" fragment.
func TestScenarioContextAutoDetect(t *testing.T) {
	sigs, _ := parseHTMLWithReports(t, `<td>x</td>`, Options{Context: AutoContext})
	require.NotEmpty(t, sigs)
	start, ok := sigs[0].Sig.(StartElement)
	require.True(t, ok)
	require.Equal(t, "td", start.Name.Local)
}

// The zero-value Options, not just the spelled-out AutoContext, must also
// auto-detect: a caller who never touches Context gets detection, not a
// silent Document parse.
func TestScenarioZeroValueOptionsAutoDetects(t *testing.T) {
	sigs, _ := parseHTMLWithReports(t, `<td>x</td>`, Options{})
	require.NotEmpty(t, sigs)
	start, ok := sigs[0].Sig.(StartElement)
	require.True(t, ok)
	require.Equal(t, "td", start.Name.Local)
}

// Scenario 6: an XML encoding declaration switches the decoder mid-stream.
func TestScenarioEncodingSwitch(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><r>" + "\xe9" + "</r>"
	sigs, reports := parseXMLWithReports(t, doc)
	require.Empty(t, reports)

	var text string
	for _, s := range sigs {
		if t2, ok := s.Sig.(Text); ok {
			text = t2.String()
		}
	}
	require.Equal(t, "é", text)
}

func TestWriteXMLRoundTrip(t *testing.T) {
	doc := `<r a="1">hi<c/></r>`
	sigs, reports := parseXMLWithReports(t, doc)
	require.Empty(t, reports)

	out := WriteXML(stream.OfSlice(sigs), Options{})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })

	again, reports2 := parseXMLWithReports(t, string(b))
	require.Empty(t, reports2)
	require.Equal(t, len(sigs), len(again))
	for i := range sigs {
		require.Equal(t, sigs[i].Sig, again[i].Sig)
	}
}

func TestWriteHTMLProducesVoidElementWithoutClosingTag(t *testing.T) {
	sigs, _ := parseHTMLWithReports(t, `<br>`, Options{Context: FragmentContext("body")})
	out := WriteHTML(stream.OfSlice(sigs), Options{})
	var b []byte
	stream.Iter(out, func(c byte) { b = append(b, c) })
	require.Contains(t, string(b), "<br>")
	require.NotContains(t, string(b), "</br>")
}
