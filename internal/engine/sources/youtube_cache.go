package sources

import (
	"context"
	"encoding/json"
	"log/slog"
	"unicode/utf8"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

const (
	transcriptKeyPrefix = "yt_transcript_"
	// MaxCachedChars caps the cumulative cue text (in runes) of a cached transcript.
	MaxCachedChars = 150000
)

// TranscriptCache persists transcripts per video id. Entries never expire;
// the last writer wins.
type TranscriptCache struct {
	Store engine.Store
}

// TranscriptCacheKey returns the store key of a video's transcript.
func TranscriptCacheKey(videoID string) string {
	return transcriptKeyPrefix + videoID
}

// Load returns the cached transcript if it has at least one cue. Store and
// decode failures are misses.
func (c TranscriptCache) Load(ctx context.Context, videoID string) (*engine.TranscriptResult, bool) {
	if c.Store == nil {
		return nil, false
	}
	data, ok, err := c.Store.Get(ctx, TranscriptCacheKey(videoID))
	if err != nil {
		slog.Debug("youtube: transcript cache read failed", slog.String("id", videoID), slog.Any("err", err))
	}
	if err != nil || !ok {
		engine.IncrCacheMiss()
		return nil, false
	}
	var res engine.TranscriptResult
	if err := json.Unmarshal(data, &res); err != nil || len(res.Cues) == 0 {
		engine.IncrCacheMiss()
		return nil, false
	}
	engine.IncrCacheHit()
	return &res, true
}

// Save stores cues under the video id, dropping the tail once cumulative text
// exceeds MaxCachedChars. It returns the stored copy, whose Truncated flag
// reports the cut. Store failures are logged and ignored.
func (c TranscriptCache) Save(ctx context.Context, videoID string, cues []engine.Cue, lang string) *engine.TranscriptResult {
	res := capCues(cues, lang)
	if c.Store == nil {
		return res
	}
	data, err := json.Marshal(res)
	if err != nil {
		slog.Debug("youtube: transcript cache encode failed", slog.String("id", videoID), slog.Any("err", err))
		return res
	}
	if err := c.Store.Set(ctx, TranscriptCacheKey(videoID), data); err != nil {
		slog.Warn("youtube: transcript cache write failed", slog.String("id", videoID), slog.Any("err", err))
	}
	return res
}

func capCues(cues []engine.Cue, lang string) *engine.TranscriptResult {
	res := &engine.TranscriptResult{Lang: lang, Cues: make([]engine.Cue, 0, len(cues))}
	total := 0
	for _, cue := range cues {
		total += utf8.RuneCountInString(cue.Text)
		if total > MaxCachedChars {
			res.Truncated = true
			break
		}
		res.Cues = append(res.Cues, cue)
	}
	return res
}
