package encoding

import "strings"

// findAttr does a minimal, ASCII-only scan for name="value" or
// name='value' inside a tag/declaration fragment. It is intentionally not
// a full attribute-value tokenizer — detection only ever needs to read one
// specific attribute out of a handful of well-formed bytes before the real
// tokenizer takes over.
func findAttr(text, name string) (string, bool) {
	lower := strings.ToLower(text)
	needle := name
	i := 0
	for {
		idx := strings.Index(lower[i:], needle)
		if idx < 0 {
			return "", false
		}
		i += idx
		after := text[i+len(needle):]
		trimmed := strings.TrimLeft(after, " \t\r\n")
		if strings.HasPrefix(trimmed, "=") {
			return readAttrValue(strings.TrimLeft(trimmed[1:], " \t\r\n"))
		}
		i += len(needle)
	}
}

func readAttrValue(s string) (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	quote := s[0]
	if quote == '"' || quote == '\'' {
		end := strings.IndexByte(s[1:], quote)
		if end < 0 {
			return "", false
		}
		return s[1 : 1+end], true
	}
	end := strings.IndexAny(s, " \t\r\n>")
	if end < 0 {
		end = len(s)
	}
	if end == 0 {
		return "", false
	}
	return s[:end], true
}
