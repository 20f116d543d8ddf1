package engine

// ScanJSONObject returns the object literal that opens at s[start] == '{' by
// tracking brace depth. Braces inside single- or double-quoted strings are
// ignored and backslash escapes are honored. ok is false when s[start] is not
// '{' or the object never closes.
func ScanJSONObject(s string, start int) (obj string, ok bool) {
	if start < 0 || start >= len(s) || s[start] != '{' {
		return "", false
	}
	depth := 0
	var quote byte // 0 outside a string
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
