// Command markuplint reads a document as XML or HTML, reports every
// recoverable parse error to stderr, and optionally re-serializes the
// recovered document to stdout — a thin CLI front-end exercising
// ParseXML/ParseHTML and WriteXML/WriteHTML end to end.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	markup "github.com/corvidlabs/markup"
	"github.com/corvidlabs/markup/mlog"
	"github.com/corvidlabs/markup/sink"
	"github.com/corvidlabs/markup/source"
	"github.com/corvidlabs/markup/stream"
)

func main() {
	htmlMode := flag.Bool("html", false, "force HTML parsing")
	xmlMode := flag.Bool("xml", false, "force XML parsing")
	doFormat := flag.Bool("format", false, "re-serialize the recovered document to stdout")
	strict := flag.Bool("strict", false, "promote unmatched end tags from recoverable to fatal")
	flag.Parse()

	path := flag.Arg(0)

	logger := &mlog.Logger{Output: os.Stderr, NoStdout: true}

	var src *stream.Stream[byte]
	var closeFile func() error
	if path == "" || path == "-" {
		src = source.FromReader(os.Stdin)
	} else {
		s, c, err := source.FromFile(path)
		if err != nil {
			fail("open %s: %v", path, err)
		}
		src, closeFile = s, c
	}
	if closeFile != nil {
		defer closeFile()
	}

	asHTML := *htmlMode || (!*xmlMode && looksLikeHTML(path))

	opts := markup.Options{
		Report:        func(loc markup.Location, err error) { logger.E(loc.String()+":", err) },
		StrictEndTags: *strict,
	}

	var sigs *stream.Stream[markup.Located]
	if asHTML {
		sigs = markup.ParseHTML(src, opts)
	} else {
		sigs = markup.ParseXML(src, opts)
	}

	if !*doFormat {
		stream.Drain(sigs)
		return
	}

	var out *stream.Stream[byte]
	if asHTML {
		out = markup.WriteHTML(sigs, opts)
	} else {
		out = markup.WriteXML(sigs, opts)
	}
	if err := sink.ToWriter(out, os.Stdout); err != nil {
		fail("write: %v", err)
	}
}

func looksLikeHTML(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
