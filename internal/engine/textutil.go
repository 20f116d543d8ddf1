package engine

import (
	"unicode/utf8"

	"github.com/anatolykoptev/go-kit/strutil"
)

// UserAgentChrome is sent by the net/http transports.
const UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// CapText keeps the first limit runes of s and appends marker when anything was cut.
func CapText(s string, limit int, marker string) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return TruncateRunes(s, limit, "") + marker
}

// TruncateAtWord truncates a string to maxLen runes at a word boundary.
func TruncateAtWord(s string, maxLen int) string {
	return strutil.TruncateAtWord(s, maxLen)
}
