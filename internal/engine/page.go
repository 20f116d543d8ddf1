package engine

// Inspector is the read-only view of host-page state the transcript code needs:
// window-level globals, the host's configuration accessor and inline scripts.
type Inspector interface {
	// Global returns a window-level value by dotted path, e.g. "ytplayer.config.args.player_response".
	Global(path string) (any, bool)
	// ConfigValue reads a key through the host configuration accessor (ytcfg.get on YouTube).
	ConfigValue(key string) (any, bool)
	// ScanInlineScripts returns the bodies of inline scripts containing substr.
	ScanInlineScripts(substr string) []string
	// Lang is the document language attribute, "" if absent.
	Lang() string
}

// Document adds the DOM queries used by page and video extraction.
type Document interface {
	Inspector
	Location() string
	Title() string
	CanonicalURL() string
	MetaContent(property string) string
	IframeSources() []string
	HasVideo() bool
	VideoSource() string
	VideoDuration() (seconds float64, ok bool)
	// TextTrackCues returns cues already loaded by the page's media element, at most limit.
	TextTrackCues(limit int) []Cue
	// TextBlocks returns the text of headings, paragraphs, list items and quotes
	// inside the main article (or body).
	TextBlocks() []string
	// Readable returns the readability-extracted article as markdown.
	Readable() (string, error)
}
