package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

var (
	// ErrNoTranscript reports that every acquisition strategy failed.
	ErrNoTranscript = errors.New("youtube: no transcript available")
	// ErrTranscriptsDisabled reports the user opt-out. It wraps ErrNoTranscript.
	ErrTranscriptsDisabled = fmt.Errorf("transcripts disabled by user: %w", ErrNoTranscript)
)

var (
	// baseSweepLangs follow the document language in the language sweep.
	baseSweepLangs = []string{"en", "en-US", "en-GB", "en-CA", "en-AU", "en-IN"}
	// extraSweepLangs are appended after the deduplicated preferred list.
	extraSweepLangs = []string{"en-uk", "en-nz"}
)

// TranscriptFetcher acquires a video transcript by trying named strategies in
// order until one yields cues. Strategies run sequentially; network failures
// and non-2xx statuses count as a failed attempt and never escape.
type TranscriptFetcher struct {
	Fetcher        engine.Fetcher
	Cache          TranscriptCache
	Prefs          engine.Preferences
	BaseURL        string   // scheme+host of the timedtext and Innertube endpoints
	Poll           engine.PollConfig
	PreferredLangs []string // defaults to the English base list
}

// NewTranscriptFetcher wires a fetcher from the engine configuration.
func NewTranscriptFetcher(store engine.Store) *TranscriptFetcher {
	return &TranscriptFetcher{
		Fetcher:        engine.DefaultFetcher(),
		Cache:          TranscriptCache{Store: store},
		Prefs:          engine.StorePreferences{Store: store, Default: engine.Cfg.DisableTranscripts},
		BaseURL:        engine.Cfg.YouTubeBaseURL,
		Poll:           engine.Cfg.PlayerPoll,
		PreferredLangs: engine.Cfg.PreferredLangs,
	}
}

// fetchState is the per-call context shared by the strategies.
type fetchState struct {
	videoID        string
	insp           engine.Inspector
	tracks         []CaptionTrack
	innertubeTried bool
}

// transcriptStrategy is one named acquisition step.
type transcriptStrategy struct {
	name string
	run  func(ctx context.Context, st *fetchState) *engine.TranscriptResult
}

// strategies returns the acquisition order. The order is the priority.
func (f *TranscriptFetcher) strategies() []transcriptStrategy {
	return []transcriptStrategy{
		{engine.StrategyTrackSweep, f.trackSweep},
		{engine.StrategyInnertubeEarly, f.innertubeEarly},
		{engine.StrategyLanguageSweep, f.languageSweep},
		{engine.StrategyInnertube, f.innertubeLate},
	}
}

// StrategyNames lists the strategy names in the order they are tried.
func (f *TranscriptFetcher) StrategyNames() []string {
	ss := f.strategies()
	names := make([]string, len(ss))
	for i, s := range ss {
		names[i] = s.name
	}
	return names
}

// FetchTranscript returns the transcript of videoID, reading track metadata and
// Innertube credentials from insp. Cached transcripts are returned without any
// network call. Every fresh result is cached before it is returned, and the
// returned value is the cached copy, so Truncated reflects the cache size cap.
// The only errors are ErrTranscriptsDisabled and ErrNoTranscript.
func (f *TranscriptFetcher) FetchTranscript(ctx context.Context, videoID string, insp engine.Inspector) (*engine.TranscriptResult, error) {
	engine.IncrTranscriptRequests()

	if f.Prefs != nil && f.Prefs.TranscriptsDisabled(ctx) {
		engine.IncrTranscriptDisabled()
		slog.Debug("youtube: transcript fetching disabled by user setting", slog.String("id", videoID))
		return nil, ErrTranscriptsDisabled
	}

	if cached, ok := f.Cache.Load(ctx, videoID); ok {
		slog.Debug("youtube: transcript cache hit", slog.String("id", videoID), slog.Int("cues", len(cached.Cues)))
		return cached, nil
	}

	st := &fetchState{videoID: videoID, insp: insp}
	st.tracks = PlayerReader{Poll: f.Poll}.Read(ctx, insp).Tracks()
	if len(st.tracks) == 0 {
		slog.Debug("youtube: no caption tracks in player response after retries", slog.String("id", videoID))
	}

	for _, s := range f.strategies() {
		if ctx.Err() != nil {
			break
		}
		res := s.run(ctx, st)
		if res == nil || len(res.Cues) == 0 {
			continue
		}
		engine.IncrStrategyHit(s.name)
		slog.Debug("youtube: transcript fetched",
			slog.String("id", videoID), slog.String("strategy", s.name),
			slog.Int("cues", len(res.Cues)), slog.String("lang", res.Lang))
		return f.persist(ctx, videoID, res), nil
	}

	engine.IncrTranscriptExhausted()
	slog.Warn("youtube: transcript unavailable", slog.String("id", videoID), slog.Int("tracks", len(st.tracks)))
	return nil, ErrNoTranscript
}

// persist caches res and returns the stored copy. A single cue larger than the
// cache cap leaves nothing to store; the live result is returned as is.
func (f *TranscriptFetcher) persist(ctx context.Context, videoID string, res *engine.TranscriptResult) *engine.TranscriptResult {
	stored := f.Cache.Save(ctx, videoID, res.Cues, res.Lang)
	if len(stored.Cues) == 0 {
		return res
	}
	return stored
}

// trackSweep tries every advertised track, manual first, in each format variant
// and then once more at its plain base URL.
func (f *TranscriptFetcher) trackSweep(ctx context.Context, st *fetchState) *engine.TranscriptResult {
	for _, t := range orderTracks(st.tracks) {
		for _, u := range formatVariantURLs(t) {
			if cues := f.fetchCues(ctx, u); len(cues) > 0 {
				return &engine.TranscriptResult{Cues: cues, Lang: t.LanguageCode}
			}
		}
		if cues := f.fetchCues(ctx, t.BaseURL); len(cues) > 0 {
			return &engine.TranscriptResult{Cues: cues, Lang: t.LanguageCode}
		}
	}
	return nil
}

// innertubeEarly runs the Innertube path before the language sweep when the page
// advertised no tracks at all.
func (f *TranscriptFetcher) innertubeEarly(ctx context.Context, st *fetchState) *engine.TranscriptResult {
	if len(st.tracks) > 0 {
		return nil
	}
	return f.innertube(ctx, st)
}

// languageSweep queries the public timedtext endpoint for each sweep language,
// manual then ASR, across the caption formats.
func (f *TranscriptFetcher) languageSweep(ctx context.Context, st *fetchState) *engine.TranscriptResult {
	base := f.PreferredLangs
	if len(base) == 0 {
		base = baseSweepLangs
	}
	for _, lang := range sweepLanguages(st.insp.Lang(), base, extraSweepLangs) {
		for _, asr := range []bool{false, true} {
			for _, u := range timedTextURLs(f.baseURL(), st.videoID, lang, asr) {
				if ctx.Err() != nil {
					return nil
				}
				if cues := f.fetchCues(ctx, u); len(cues) > 0 {
					return &engine.TranscriptResult{Cues: cues, Lang: lang}
				}
			}
		}
	}
	return nil
}

// innertubeLate is the last resort; skipped when innertubeEarly already ran.
func (f *TranscriptFetcher) innertubeLate(ctx context.Context, st *fetchState) *engine.TranscriptResult {
	if st.innertubeTried {
		return nil
	}
	return f.innertube(ctx, st)
}

func (f *TranscriptFetcher) innertube(ctx context.Context, st *fetchState) *engine.TranscriptResult {
	st.innertubeTried = true
	creds := ExtractInnertubeCredentials(st.insp)
	if creds == nil {
		slog.Debug("youtube: no innertube credentials on page", slog.String("id", st.videoID))
		return nil
	}
	tracks, err := fetchInnertubePlayer(ctx, f.Fetcher, f.baseURL(), st.videoID, creds)
	if err != nil {
		slog.Debug("youtube: innertube player failed", slog.String("id", st.videoID), slog.Any("err", err))
		return nil
	}
	pick := SelectCaptionTrack(tracks, innertubeLangs)
	if pick == nil || pick.BaseURL == "" {
		return nil
	}
	cues := f.fetchCues(ctx, appendQuery(pick.BaseURL, "fmt=json3"))
	if len(cues) == 0 {
		return nil
	}
	return &engine.TranscriptResult{Cues: cues, Lang: pick.LanguageCode}
}

// fetchCues GETs rawURL with session cookies and parses the body. Any failure
// yields no cues.
func (f *TranscriptFetcher) fetchCues(ctx context.Context, rawURL string) []engine.Cue {
	resp, err := f.Fetcher.Fetch(ctx, &engine.FetchRequest{
		Method:      http.MethodGet,
		URL:         rawURL,
		Credentials: true,
	})
	if err != nil {
		slog.Debug("youtube: caption fetch failed", slog.String("url", rawURL), slog.Any("err", err))
		return nil
	}
	if !resp.OK() {
		slog.Debug("youtube: caption fetch not ok", slog.String("url", rawURL), slog.Int("status", resp.Status))
		return nil
	}
	if len(resp.Body) == 0 {
		return nil
	}
	return ParseTranscript(string(resp.Body))
}

func (f *TranscriptFetcher) baseURL() string {
	if f.BaseURL == "" {
		return engine.DefaultYouTubeBaseURL
	}
	return f.BaseURL
}
