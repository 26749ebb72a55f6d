package html

// voidElements are the HTML5 elements the tree constructor never pushes a
// matching end tag for, even if the tokenizer produced a self-closing
// slash or a stray end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// rawTextElements switch the tokenizer into RAWTEXT: no character
// references, "<" has no special meaning except as the start of the
// matching end tag.
var rawTextElements = map[string]bool{
	"style": true, "xmp": true, "iframe": true, "noembed": true,
	"noframes": true, "script": true,
}

// rcdataElements switch the tokenizer into RCDATA: character references
// still expand, but "<" otherwise has no special meaning except as the
// start of the matching end tag.
var rcdataElements = map[string]bool{
	"title": true, "textarea": true,
}

// specialElements is the HTML specification's "special" category used by
// the adoption agency algorithm to find the furthest block: any element in
// this set occurring between a misnested formatting element and the top of
// the stack stops the simple "no furthest block" recovery.
var specialElements = map[string]bool{
	"address": true, "applet": true, "area": true, "article": true, "aside": true,
	"base": true, "basefont": true, "bgsound": true, "blockquote": true, "body": true,
	"br": true, "button": true, "caption": true, "center": true, "col": true,
	"colgroup": true, "dd": true, "details": true, "dir": true, "div": true,
	"dl": true, "dt": true, "embed": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "frame": true, "frameset": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"head": true, "header": true, "hgroup": true, "hr": true, "html": true,
	"iframe": true, "img": true, "input": true, "li": true, "link": true,
	"listing": true, "main": true, "marquee": true, "menu": true, "meta": true,
	"nav": true, "noembed": true, "noframes": true, "noscript": true, "object": true,
	"ol": true, "p": true, "param": true, "plaintext": true, "pre": true,
	"script": true, "section": true, "select": true, "source": true, "style": true,
	"summary": true, "table": true, "tbody": true, "td": true, "template": true,
	"textarea": true, "tfoot": true, "th": true, "thead": true, "title": true,
	"tr": true, "track": true, "ul": true, "wbr": true, "xmp": true,
}

// formattingElements is the set the list of active formatting elements
// tracks and the adoption agency algorithm reconstructs/adopts.
var formattingElements = map[string]bool{
	"a": true, "b": true, "big": true, "code": true, "em": true, "font": true,
	"i": true, "nobr": true, "s": true, "small": true, "strike": true,
	"strong": true, "tt": true, "u": true,
}

// impliedEndTagElements generates implied end tags when closing list items,
// paragraphs and the like (spec's generate-implied-end-tags).
var impliedEndTagElements = map[string]bool{
	"dd": true, "dt": true, "li": true, "optgroup": true, "option": true,
	"p": true, "rb": true, "rp": true, "rt": true, "rtc": true,
}

// tableSectionFragmentContext maps a start-tag name to the fragment
// context the HTML tree constructor auto-detects it under (spec §4.F.6).
var tableSectionFragmentContext = map[string]string{
	"td": "tr", "th": "tr", "tr": "tbody", "tbody": "table",
	"thead": "table", "tfoot": "table", "caption": "table",
	"colgroup": "table", "col": "colgroup",
	"option": "select", "optgroup": "select",
}

// htmlBreakoutTags are the tags that, when encountered while inside
// foreign content, pop back out into HTML content (spec §4.F.4).
var htmlBreakoutTags = map[string]bool{
	"b": true, "big": true, "blockquote": true, "body": true, "br": true,
	"center": true, "code": true, "dd": true, "div": true, "dl": true,
	"dt": true, "em": true, "embed": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "head": true, "hr": true, "i": true,
	"img": true, "li": true, "listing": true, "menu": true, "meta": true,
	"nobr": true, "ol": true, "p": true, "pre": true, "ruby": true, "s": true,
	"small": true, "span": true, "strong": true, "strike": true, "sub": true,
	"sup": true, "table": true, "tt": true, "u": true, "ul": true, "var": true,
}
