package gistserver

import (
	"time"

	"github.com/anatolykoptev/go_gist/internal/engine"
	"github.com/anatolykoptev/go_gist/internal/engine/sources"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultSummaryTTL bounds how long a cached page summary is served.
const DefaultSummaryTTL = time.Hour

// tools carries the dependencies shared by every tool handler.
type tools struct {
	store       engine.Store
	transcripts *sources.TranscriptFetcher
	prefs       engine.StorePreferences
	summaryTTL  time.Duration
}

func newTools(store engine.Store, summaryTTL time.Duration) *tools {
	return &tools{
		store:       store,
		transcripts: sources.NewTranscriptFetcher(store),
		prefs:       engine.StorePreferences{Store: store, Default: engine.Cfg.DisableTranscripts},
		summaryTTL:  summaryTTL,
	}
}

// RegisterTools registers the content tools on the given MCP server:
// youtube_transcript, page_extract, page_summarize, transcript_settings.
// Returns the number of registered tools.
func RegisterTools(server *mcp.Server, store engine.Store, summaryTTL time.Duration) int {
	t := newTools(store, summaryTTL)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_transcript",
		Description: "Fetch the transcript (captions) of a YouTube video. Accepts a video ID or a watch/shorts/embed/youtu.be URL. Prefers manual captions over auto-generated ones and English variants by default. Returns timed cues (seconds), the caption language and whether the transcript was truncated to fit the cache.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.youtubeTranscript)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "page_extract",
		Description: "Extract the readable main text of a web page together with its primary video (title, source, duration, platform) and video captions. YouTube captions are fetched when the page itself carries too few.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.pageExtract)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "page_summarize",
		Description: "Summarize a web page with an LLM: TL;DR, 5-10 key points and action items. Uses the video transcript when one is available. Mode: auto (default), page (focus on text) or video (focus on the video).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.pageSummarize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_settings",
		Description: "Enable or disable YouTube transcript fetching. When disabled, youtube_transcript reports no transcript and page tools only use captions already present in the page.",
	}, t.transcriptSettings)

	return 4
}
