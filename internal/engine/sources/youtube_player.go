package sources

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

// ytInitialPlayerResponseMarker names the player metadata global and its inline script assignment.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse"

// ytPlayerArgsPath is the legacy location of the player response, a JSON string.
const ytPlayerArgsPath = "ytplayer.config.args.player_response"

// CaptionTrack is one caption stream advertised by the host page.
type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode,omitempty"`
	Kind         string `json:"kind,omitempty"` // "asr" = auto-generated
	VssID        string `json:"vssId,omitempty"`
}

// IsASR reports an auto-generated track.
func (t CaptionTrack) IsASR() bool { return t.Kind == "asr" }

// PlayerResponse is the subset of the player metadata the transcript code reads.
type PlayerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []CaptionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

// Tracks returns the advertised caption tracks; nil-safe.
func (p *PlayerResponse) Tracks() []CaptionTrack {
	if p == nil || p.Captions == nil {
		return nil
	}
	return p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
}

// PlayerReader polls the host page for player metadata, which may be injected
// after the initial scripts run.
type PlayerReader struct {
	Poll engine.PollConfig
}

// Read returns the first player response carrying at least one caption track.
// After the last attempt it returns whatever the final read produced, possibly
// nil. It never fails; a cancelled ctx ends the polling early.
func (r PlayerReader) Read(ctx context.Context, insp engine.Inspector) *PlayerResponse {
	attempts := max(r.Poll.Attempts, 1)
	for attempt := 0; attempt < attempts; attempt++ {
		pr := readPlayerResponse(insp)
		if len(pr.Tracks()) > 0 {
			if attempt > 0 {
				slog.Debug("youtube: player response obtained after retries", slog.Int("attempt", attempt))
			}
			return pr
		}
		if attempt == 0 {
			slog.Debug("youtube: player response not ready, polling")
		}
		if !sleepCtx(ctx, r.Poll.Delay) {
			break
		}
	}
	return readPlayerResponse(insp)
}

// readPlayerResponse tries the window globals first, then the inline scripts.
func readPlayerResponse(insp engine.Inspector) *PlayerResponse {
	if pr := readWindowPlayerResponse(insp); pr != nil {
		return pr
	}
	return parsePlayerResponseFromScripts(insp)
}

func readWindowPlayerResponse(insp engine.Inspector) *PlayerResponse {
	if v, ok := insp.Global(ytInitialPlayerResponseMarker); ok && v != nil {
		if pr := decodePlayerValue(v); pr != nil {
			return pr
		}
	}
	if v, ok := insp.Global(ytPlayerArgsPath); ok {
		if s, isStr := v.(string); isStr && s != "" {
			var pr PlayerResponse
			if err := json.Unmarshal([]byte(s), &pr); err == nil {
				return &pr
			}
		}
	}
	return nil
}

// decodePlayerValue converts an injected global (decoded JSON, raw JSON or a
// typed value) into a PlayerResponse.
func decodePlayerValue(v any) *PlayerResponse {
	var data []byte
	switch t := v.(type) {
	case *PlayerResponse:
		return t
	case string:
		data = []byte(t)
	case []byte:
		data = t
	case json.RawMessage:
		data = t
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		data = b
	}
	var pr PlayerResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil
	}
	return &pr
}

func parsePlayerResponseFromScripts(insp engine.Inspector) *PlayerResponse {
	for _, txt := range insp.ScanInlineScripts(ytInitialPlayerResponseMarker) {
		idx := strings.Index(txt, ytInitialPlayerResponseMarker)
		brace := strings.IndexByte(txt[idx:], '{')
		if brace < 0 {
			continue
		}
		obj, ok := engine.ScanJSONObject(txt, idx+brace)
		if !ok {
			continue
		}
		var pr PlayerResponse
		if err := json.Unmarshal([]byte(obj), &pr); err != nil {
			slog.Debug("youtube: player response script JSON parse failed", slog.Any("err", err))
			continue
		}
		return &pr
	}
	return nil
}

// sleepCtx waits d, returning false if ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
