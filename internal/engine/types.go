package engine

// --- Transcript types ---

// Cue is a single timed caption entry. Times are whole seconds.
type Cue struct {
	Text      string `json:"text"`
	StartTime int    `json:"startTime"`
	EndTime   int    `json:"endTime"`
}

// TranscriptResult is a normalized transcript. Truncated reports that cues were
// cut to fit the cache size ceiling.
type TranscriptResult struct {
	Cues      []Cue  `json:"cues"`
	Lang      string `json:"lang,omitempty"`
	Truncated bool   `json:"truncated"`
}

// TranscriptSource reports where the cues attached to an extraction came from.
type TranscriptSource string

const (
	SourceInPage  TranscriptSource = "inpage"
	SourceFetched TranscriptSource = "fetched"
	SourceNone    TranscriptSource = "none"
)

// Platform is the detected video host.
type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformVimeo   Platform = "vimeo"
	PlatformOther   Platform = "other"
)

// --- Extraction types ---

// ExtractedVideo describes the primary video of a page, if any.
type ExtractedVideo struct {
	HasVideo            bool             `json:"hasVideo"`
	Src                 string           `json:"src,omitempty"`
	Title               string           `json:"title,omitempty"`
	DurationSec         *int             `json:"durationSec,omitempty"`
	Cues                []Cue            `json:"cues,omitempty"`
	TranscriptSource    TranscriptSource `json:"transcriptSource,omitempty"`
	TranscriptLanguage  string           `json:"transcriptLanguage,omitempty"`
	TranscriptTruncated bool             `json:"transcriptTruncated,omitempty"`
	PageURL             string           `json:"pageUrl,omitempty"`
	SourcePlatform      Platform         `json:"sourcePlatform,omitempty"`
	VideoID             string           `json:"videoId,omitempty"`
}

// ExtractedPage is everything the summarizer needs from one page.
type ExtractedPage struct {
	URL      string         `json:"url"`
	Title    string         `json:"title"`
	MainText string         `json:"mainText"`
	Video    ExtractedVideo `json:"video"`
}

// SummarizeMode selects which part of a page the summary focuses on.
type SummarizeMode string

const (
	ModeAuto  SummarizeMode = "auto"
	ModePage  SummarizeMode = "page"
	ModeVideo SummarizeMode = "video"
)

// --- MCP tool input/output types ---

type TranscriptInput struct {
	Video string `json:"video" jsonschema:"YouTube video ID or URL (watch, shorts, embed, youtu.be)"`
}

type TranscriptOutput struct {
	VideoID   string `json:"video_id"`
	Available bool   `json:"available"`
	Lang      string `json:"lang,omitempty"`
	Truncated bool   `json:"truncated"`
	Cues      []Cue  `json:"cues"`
}

type PageExtractInput struct {
	URL string `json:"url" jsonschema:"Page URL to extract text and video captions from"`
}

type PageSummarizeInput struct {
	URL  string `json:"url" jsonschema:"Page URL to summarize"`
	Mode string `json:"mode,omitempty" jsonschema:"Focus: auto (default), page, video"`
}

type PageSummarizeOutput struct {
	Summary string        `json:"summary"`
	Extract ExtractedPage `json:"extract"`
}

type TranscriptSettingsInput struct {
	DisableTranscripts bool `json:"disable_transcripts" jsonschema:"Disable YouTube transcript fetching entirely"`
}

type TranscriptSettingsOutput struct {
	DisableTranscripts bool `json:"disable_transcripts"`
}
