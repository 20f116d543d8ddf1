package sources

import (
	"net/url"
	"regexp"
	"strings"
)

// captionFormats are the fmt query values tried for every caption URL, best first.
var captionFormats = []string{"json3", "srv3", "srv1"}

var (
	fmtParamRE     = regexp.MustCompile(`[?&]fmt=`)
	kindASRParamRE = regexp.MustCompile(`[?&]kind=asr`)
)

// SelectCaptionTrack picks the best track for the preferred languages. Manual
// tracks always beat auto-generated ones: language match among manual, first
// manual, language match among ASR, first ASR. Language matching is a
// case-insensitive prefix test on the track's language code. Returns nil for
// no tracks.
func SelectCaptionTrack(tracks []CaptionTrack, langs []string) *CaptionTrack {
	manual, asr := partitionTracks(tracks)
	for _, part := range [][]CaptionTrack{manual, asr} {
		if t := matchLanguage(part, langs); t != nil {
			return t
		}
		if len(part) > 0 {
			return &part[0]
		}
	}
	return nil
}

func partitionTracks(tracks []CaptionTrack) (manual, asr []CaptionTrack) {
	for _, t := range tracks {
		if t.IsASR() {
			asr = append(asr, t)
		} else {
			manual = append(manual, t)
		}
	}
	return manual, asr
}

// matchLanguage returns the first track matching the earliest preferred language.
func matchLanguage(tracks []CaptionTrack, langs []string) *CaptionTrack {
	for _, lang := range langs {
		lang = strings.ToLower(lang)
		for i := range tracks {
			if strings.HasPrefix(strings.ToLower(tracks[i].LanguageCode), lang) {
				return &tracks[i]
			}
		}
	}
	return nil
}

// orderTracks returns manual tracks first, then ASR, each in advertised order.
func orderTracks(tracks []CaptionTrack) []CaptionTrack {
	manual, asr := partitionTracks(tracks)
	return append(manual, asr...)
}

// formatVariantURLs lists the URLs tried for a track: the base URL unchanged
// when it already names a format, otherwise one URL per caption format with
// kind=asr added for ASR tracks that lack it.
func formatVariantURLs(t CaptionTrack) []string {
	if fmtParamRE.MatchString(t.BaseURL) {
		return []string{t.BaseURL}
	}
	out := make([]string, 0, len(captionFormats))
	for _, f := range captionFormats {
		u := appendQuery(t.BaseURL, "fmt="+f)
		if t.IsASR() && !kindASRParamRE.MatchString(t.BaseURL) {
			u += "&kind=asr"
		}
		out = append(out, u)
	}
	return out
}

// timedTextURLs lists the public timedtext endpoint URLs for one language and ASR flag.
func timedTextURLs(baseURL, videoID, lang string, asr bool) []string {
	out := make([]string, 0, len(captionFormats))
	for _, f := range captionFormats {
		q := url.Values{}
		q.Set("lang", lang)
		q.Set("v", videoID)
		q.Set("fmt", f)
		if asr {
			q.Set("kind", "asr")
		}
		out = append(out, strings.TrimRight(baseURL, "/")+"/api/timedtext?"+q.Encode())
	}
	return out
}

// sweepLanguages builds the language sweep list: document language, the English
// base list (deduplicated), then the extra English regions.
func sweepLanguages(docLang string, base, extra []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(l string) {
		if l == "" || seen[l] {
			return
		}
		seen[l] = true
		out = append(out, l)
	}
	add(docLang)
	for _, l := range base {
		add(l)
	}
	return append(out, extra...)
}

func appendQuery(u, kv string) string {
	if strings.Contains(u, "?") {
		return u + "&" + kv
	}
	return u + "?" + kv
}
