package gistserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_gist/internal/engine"
	"github.com/anatolykoptev/go_gist/internal/engine/sources"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (t *tools) youtubeTranscript(ctx context.Context, _ *mcp.CallToolRequest, input engine.TranscriptInput) (*mcp.CallToolResult, engine.TranscriptOutput, error) {
	videoID := sources.ParseVideoRef(input.Video)
	if videoID == "" {
		return nil, engine.TranscriptOutput{}, fmt.Errorf("video must be a YouTube video ID or URL, got %q", input.Video)
	}
	out := engine.TranscriptOutput{VideoID: videoID, Cues: []engine.Cue{}}

	// The watch page supplies player metadata and Innertube credentials. A
	// failed load still lets the cache and the language sweep run.
	var insp engine.Inspector
	page, err := engine.LoadPage(ctx, sources.WatchURL(engine.Cfg.YouTubeBaseURL, videoID))
	if err != nil {
		slog.Debug("youtube_transcript: watch page load failed", slog.String("video", videoID), slog.Any("err", err))
		insp = emptyPage(videoID)
	} else {
		insp = page
	}

	var res *engine.TranscriptResult
	err = engine.TrackOperation(ctx, "youtube_transcript", func(ctx context.Context) error {
		var ferr error
		res, ferr = t.transcripts.FetchTranscript(ctx, videoID, insp)
		return ferr
	})
	if errors.Is(err, sources.ErrNoTranscript) {
		return nil, out, nil
	}
	if err != nil {
		return nil, out, err
	}
	out.Available = true
	out.Lang = res.Lang
	out.Truncated = res.Truncated
	out.Cues = res.Cues
	return nil, out, nil
}

// emptyPage stands in for a watch page that could not be loaded.
func emptyPage(videoID string) engine.Inspector {
	p, _ := engine.NewHTMLPage("<html></html>", sources.WatchURL(engine.Cfg.YouTubeBaseURL, videoID))
	return p
}
