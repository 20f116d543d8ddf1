package extract

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_gist/internal/engine"
	"github.com/anatolykoptev/go_gist/internal/engine/sources"
)

// MaxInPageCues caps cues read from the page's own loaded text tracks.
const MaxInPageCues = 200

var (
	// videoPageRE matches locations that are themselves video pages; canonical
	// and og:url tags go stale on client-side navigation there.
	videoPageRE = regexp.MustCompile(`youtube\.com/(watch|shorts)|youtu\.be/`)
	embedRE     = regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{6,})`)
)

// TranscriptFetcher is the transcript acquisition the extractor depends on.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string, insp engine.Inspector) (*engine.TranscriptResult, error)
}

// VideoExtractor describes the primary video of a document and attaches the
// best transcript available.
type VideoExtractor struct {
	Transcripts TranscriptFetcher // nil = in-page cues only
	// Threshold is the in-page cue count at or above which no fetch is attempted.
	Threshold int
}

// ExtractVideo runs a VideoExtractor with the configured fetch threshold.
func ExtractVideo(ctx context.Context, doc engine.Document, ts TranscriptFetcher) engine.ExtractedVideo {
	return VideoExtractor{Transcripts: ts, Threshold: engine.Cfg.FetchThreshold}.Extract(ctx, doc)
}

// Extract reports hasVideo=false when the document has no video. Otherwise it
// collects in-page cues and, on YouTube pages below the threshold, fetches a
// transcript, adopting it only when it has strictly more cues.
func (x VideoExtractor) Extract(ctx context.Context, doc engine.Document) engine.ExtractedVideo {
	if !doc.HasVideo() {
		slog.Debug("extract: no video element found", slog.String("url", doc.Location()))
		return engine.ExtractedVideo{HasVideo: false}
	}

	v := engine.ExtractedVideo{
		HasVideo: true,
		Src:      firstNonEmpty(doc.VideoSource(), doc.MetaContent("og:video")),
		Title:    firstNonEmpty(doc.MetaContent("og:title"), doc.Title()),
	}
	if d, ok := doc.VideoDuration(); ok && !math.IsInf(d, 0) && !math.IsNaN(d) {
		sec := int(math.Floor(d + 0.5))
		v.DurationSec = &sec
	}

	cues := doc.TextTrackCues(MaxInPageCues)
	slog.Debug("extract: in-page cues collected", slog.Int("count", len(cues)))

	href := doc.Location()
	v.PageURL = resolvePageURL(doc)
	v.SourcePlatform = DetectPlatform(firstNonEmpty(v.PageURL, v.Src, href))
	v.TranscriptSource = engine.SourceInPage

	if v.SourcePlatform == engine.PlatformYouTube {
		v.VideoID = sources.ExtractVideoID(firstNonEmpty(v.PageURL, href))
		threshold := x.Threshold
		if threshold <= 0 {
			threshold = engine.DefaultFetchThreshold
		}
		if v.VideoID != "" && x.Transcripts != nil && len(cues) < threshold {
			res, err := x.Transcripts.FetchTranscript(ctx, v.VideoID, doc)
			switch {
			case err != nil:
				if !errors.Is(err, sources.ErrNoTranscript) {
					slog.Debug("extract: transcript fetch failed", slog.String("id", v.VideoID), slog.Any("err", err))
				}
			case res == nil:
				slog.Debug("extract: transcript fetcher returned no result", slog.String("id", v.VideoID))
			case len(res.Cues) > len(cues):
				cues = res.Cues
				v.TranscriptSource = engine.SourceFetched
				v.TranscriptLanguage = res.Lang
				v.TranscriptTruncated = res.Truncated
				slog.Debug("extract: fetched transcript adopted",
					slog.String("id", v.VideoID), slog.Int("cues", len(cues)), slog.String("lang", res.Lang))
			default:
				slog.Debug("extract: fetched transcript not longer than in-page",
					slog.String("id", v.VideoID), slog.Int("inpage", len(cues)), slog.Int("fetched", len(res.Cues)))
			}
		}
	}

	v.Cues = cues
	if len(cues) == 0 {
		v.TranscriptSource = engine.SourceNone
	}
	return v
}

// resolvePageURL picks canonical link, og:url, then location. A location that is
// itself a video page always wins. An embedded YouTube player is the last resort.
func resolvePageURL(doc engine.Document) string {
	href := doc.Location()
	if videoPageRE.MatchString(href) {
		return href
	}
	if u := firstNonEmpty(doc.CanonicalURL(), doc.MetaContent("og:url"), href); u != "" {
		return u
	}
	for _, src := range doc.IframeSources() {
		if m := embedRE.FindStringSubmatch(src); m != nil {
			return sources.WatchURL(engine.DefaultYouTubeBaseURL, m[1])
		}
	}
	return ""
}

// DetectPlatform classifies a URL by host.
func DetectPlatform(rawURL string) engine.Platform {
	u, err := url.Parse(rawURL)
	if err != nil || rawURL == "" {
		return engine.PlatformOther
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case hostIs(host, "youtube.com"), hostIs(host, "youtu.be"):
		return engine.PlatformYouTube
	case hostIs(host, "vimeo.com"):
		return engine.PlatformVimeo
	default:
		return engine.PlatformOther
	}
}

func hostIs(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
