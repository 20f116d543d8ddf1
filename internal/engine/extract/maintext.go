package extract

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

const (
	// DefaultMainTextChars caps extracted page text.
	DefaultMainTextChars = 30000
	truncatedMarker      = "\n...[truncated]"
	// minBlockRunes is the block-extraction yield below which readability is tried.
	minBlockRunes = 200
)

var blankRunRE = regexp.MustCompile(`\n{3,}`)

// MainText returns the readable text of doc: headings, paragraphs, list items and
// quotes of the main article, one per line. Pages where that yields almost
// nothing fall back to readability. Capped at limit runes (DefaultMainTextChars
// when limit <= 0).
func MainText(doc engine.Document, limit int) string {
	if limit <= 0 {
		limit = DefaultMainTextChars
	}
	text := blankRunRE.ReplaceAllString(strings.Join(doc.TextBlocks(), "\n"), "\n\n")

	if utf8.RuneCountInString(text) < minBlockRunes {
		md, err := doc.Readable()
		switch {
		case err != nil:
			slog.Debug("extract: readability fallback failed", slog.String("url", doc.Location()), slog.Any("err", err))
		case utf8.RuneCountInString(md) > utf8.RuneCountInString(text):
			text = blankRunRE.ReplaceAllString(md, "\n\n")
		}
	}
	if text == "" {
		return doc.Title()
	}
	if n := utf8.RuneCountInString(text); n > limit {
		slog.Debug("extract: truncating large text", slog.Int("length", n))
	}
	return engine.CapText(text, limit, truncatedMarker)
}
