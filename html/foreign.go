package html

const (
	svgNS  = "http://www.w3.org/2000/svg"
	mathNS = "http://www.w3.org/1998/Math/MathML"
	htmlNS = ""
)

// svgTagNameAdjustments is the specification's case-adjustment table for
// SVG tag names that the tokenizer lower-cases but the tree must push
// through to the Name as their mixed-case originals.
var svgTagNameAdjustments = map[string]string{
	"altglyph":            "altGlyph",
	"altglyphdef":         "altGlyphDef",
	"altglyphitem":        "altGlyphItem",
	"animatecolor":        "animateColor",
	"animatemotion":       "animateMotion",
	"animatetransform":    "animateTransform",
	"clippath":            "clipPath",
	"feblend":             "feBlend",
	"fecolormatrix":       "feColorMatrix",
	"fecomponenttransfer": "feComponentTransfer",
	"fecomposite":         "feComposite",
	"feconvolvematrix":    "feConvolveMatrix",
	"fediffuselighting":   "feDiffuseLighting",
	"fedisplacementmap":   "feDisplacementMap",
	"fedistantlight":      "feDistantLight",
	"fedropshadow":        "feDropShadow",
	"feflood":             "feFlood",
	"fefunca":             "feFuncA",
	"fefuncb":             "feFuncB",
	"fefuncg":             "feFuncG",
	"fefuncr":             "feFuncR",
	"fegaussianblur":      "feGaussianBlur",
	"feimage":             "feImage",
	"femerge":             "feMerge",
	"femergenode":         "feMergeNode",
	"femorphology":        "feMorphology",
	"feoffset":            "feOffset",
	"fepointlight":        "fePointLight",
	"fespecularlighting":  "feSpecularLighting",
	"fespotlight":         "feSpotLight",
	"fetile":              "feTile",
	"feturbulence":        "feTurbulence",
	"foreignobject":       "foreignObject",
	"glyphref":            "glyphRef",
	"lineargradient":      "linearGradient",
	"radialgradient":      "radialGradient",
	"textpath":            "textPath",
}

// adjustSVGTagName applies svgTagNameAdjustments, leaving names the table
// doesn't cover unchanged (they're already correctly cased or have no
// case distinction).
func adjustSVGTagName(name string) string {
	if adj, ok := svgTagNameAdjustments[name]; ok {
		return adj
	}
	return name
}

// mathMLTextIntegrationPoints are the MathML elements whose content model
// is governed by HTML insertion rules for text and character data.
var mathMLTextIntegrationPoints = map[string]bool{
	"mi": true, "mo": true, "mn": true, "ms": true, "mtext": true,
}

// isHTMLIntegrationPoint reports whether an element with this namespace
// and (lower-cased) local name is an HTML integration point per the
// specification's fixed list (MathML annotation-xml with a text/html or
// application/xhtml+xml encoding attribute, or any of the listed SVG
// elements).
func isHTMLIntegrationPoint(ns, local string, attrEncoding string) bool {
	switch ns {
	case mathNS:
		return local == "annotation-xml" && (attrEncoding == "text/html" || attrEncoding == "application/xhtml+xml")
	case svgNS:
		switch local {
		case "foreignObject", "desc", "title":
			return true
		}
	}
	return false
}

func isMathMLTextIntegrationPoint(ns, local string) bool {
	return ns == mathNS && mathMLTextIntegrationPoints[local]
}
