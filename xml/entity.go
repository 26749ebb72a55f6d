package xml

// builtin holds the five entities the XML specification itself defines.
var builtin = map[string]rune{
	"lt":   '<',
	"gt":   '>',
	"amp":  '&',
	"apos": '\'',
	"quot": '"',
}
